package api

import (
	"testing"
)

func TestAPIScripToModel(t *testing.T) {
	s := APIScrip{
		Exchange:      "BFO",
		Token:         "873401",
		LotSize:       "250",
		Symbol:        "RELIANCE",
		TradingSymbol: "RELIANCE24DEC1300CE",
		Expiry:        "26-DEC-2024",
		Instrument:    "OPTSTK",
		OptionType:    "CE",
		Strike:        "1300",
	}

	m := s.ToModel()

	if m.TradingSymbol != "RELIANCE24DEC1300CE" {
		t.Errorf("TradingSymbol = %q, want %q", m.TradingSymbol, "RELIANCE24DEC1300CE")
	}
	if m.Symbol != "RELIANCE" {
		t.Errorf("Symbol = %q, want %q", m.Symbol, "RELIANCE")
	}
	if m.LotSize != "250" {
		t.Errorf("LotSize = %q, want %q", m.LotSize, "250")
	}
	if m.Expiry != "26-DEC-2024" {
		t.Errorf("Expiry = %q, want %q", m.Expiry, "26-DEC-2024")
	}
}

func TestToRawTable(t *testing.T) {
	resp := ScripMasterResponse{Data: []APIScrip{{Token: "1"}, {Token: "2"}}}

	table := resp.ToRawTable()

	if len(table.Records) != 2 {
		t.Fatalf("len(Records) = %d, want 2", len(table.Records))
	}
	if table.Records[1].Token != "2" {
		t.Errorf("Records[1].Token = %q, want %q", table.Records[1].Token, "2")
	}
	if len(table.Columns) != 9 || table.Columns[4] != "tradingsymbol" {
		t.Errorf("Columns = %v, want the raw schema", table.Columns)
	}
}
