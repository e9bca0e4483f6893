package api

import "github.com/rickgao/bfo-scripmaster/internal/model"

// ToModel converts an APIScrip to model.RawRecord.
func (s *APIScrip) ToModel() model.RawRecord {
	return model.RawRecord{
		Exchange:      s.Exchange,
		Token:         s.Token,
		LotSize:       s.LotSize,
		Symbol:        s.Symbol,
		TradingSymbol: s.TradingSymbol,
		Expiry:        s.Expiry,
		Instrument:    s.Instrument,
		OptionType:    s.OptionType,
		Strike:        s.Strike,
	}
}

// ToRawTable converts a response into a raw table carrying the full schema.
func (r *ScripMasterResponse) ToRawTable() model.RawTable {
	records := make([]model.RawRecord, len(r.Data))
	for i := range r.Data {
		records[i] = r.Data[i].ToModel()
	}

	columns := make([]string, len(model.RawColumns))
	copy(columns, model.RawColumns)

	return model.RawTable{
		Columns: columns,
		Records: records,
	}
}
