package model

// -----------------------------------------------------------------------------
// Enumerations
// -----------------------------------------------------------------------------

// Segment selects a partition of the scrip master.
type Segment string

const (
	SegmentIndex Segment = "idx" // Index derivatives
	SegmentStock Segment = "stk" // Stock derivatives
	SegmentAll   Segment = "all" // Both, concatenated
)

// Valid reports whether s is a known segment.
func (s Segment) Valid() bool {
	switch s {
	case SegmentIndex, SegmentStock, SegmentAll:
		return true
	}
	return false
}

// Instrument kinds published in the BFO scrip master.
const (
	InstrumentFutIdx = "FUTIDX"
	InstrumentOptIdx = "OPTIDX"
	InstrumentFutStk = "FUTSTK"
	InstrumentOptStk = "OPTSTK"
)

// Option types. OptionNone marks futures.
const (
	OptionCall = "CE"
	OptionPut  = "PE"
	OptionNone = "XX"
)

// ExpiryLayout is the time layout of the expiry column.
const ExpiryLayout = "02-Jan-2006"

// -----------------------------------------------------------------------------
// Raw records
// -----------------------------------------------------------------------------

// RawColumns is the schema of a successfully fetched scrip master.
var RawColumns = []string{
	"exchange", "token", "lotsize", "symbol", "tradingsymbol",
	"expiry", "instrument", "optiontype", "strike",
}

// RawRecord is one row as published by the exchange.
type RawRecord struct {
	Exchange      string // e.g. "BFO"
	Token         string // Exchange token (numeric id)
	LotSize       string // Contract lot size
	Symbol        string // Raw symbol label (dropped by normalization)
	TradingSymbol string // e.g. "BANKEX28DEC2350000CE"
	Expiry        string // DD-MON-YYYY
	Instrument    string // FUTIDX, OPTIDX, FUTSTK, OPTSTK
	OptionType    string // CE, PE, XX
	Strike        string // Raw strike, often "-1" or "0" for futures
}

// RawTable is a fetched scrip master. The zero value is a failed fetch.
type RawTable struct {
	Columns []string
	Records []RawRecord
}

// IsEmpty reports whether the table has no rows.
func (t RawTable) IsEmpty() bool {
	return len(t.Records) == 0
}

// -----------------------------------------------------------------------------
// Normalized records
// -----------------------------------------------------------------------------

// Columns is the persisted column order of a normalized table.
var Columns = []string{
	"exchange", "token", "lotsize", "symbol", "tradingsymbol",
	"expiry", "instrument", "optiontype", "strikeprice", "strike",
}

// Record is a normalized scrip master row.
type Record struct {
	Exchange      string `json:"exchange"`
	Token         string `json:"token"`
	LotSize       string `json:"lotsize"`
	Symbol        string `json:"symbol"` // Derived underlying
	TradingSymbol string `json:"tradingsymbol"`
	Expiry        string `json:"expiry"`
	Instrument    string `json:"instrument"`
	OptionType    string `json:"optiontype"`
	StrikePrice   string `json:"strikeprice"` // Derived strike, "0" for futures
	Strike        string `json:"strike"`
}

// Values returns the record's fields in Columns order.
func (r Record) Values() []string {
	return []string{
		r.Exchange, r.Token, r.LotSize, r.Symbol, r.TradingSymbol,
		r.Expiry, r.Instrument, r.OptionType, r.StrikePrice, r.Strike,
	}
}

// RecordFromValues builds a record from values in Columns order.
// Missing trailing values are left empty.
func RecordFromValues(v []string) Record {
	get := func(i int) string {
		if i < len(v) {
			return v[i]
		}
		return ""
	}
	return Record{
		Exchange:      get(0),
		Token:         get(1),
		LotSize:       get(2),
		Symbol:        get(3),
		TradingSymbol: get(4),
		Expiry:        get(5),
		Instrument:    get(6),
		OptionType:    get(7),
		StrikePrice:   get(8),
		Strike:        get(9),
	}
}

// Table is a normalized scrip master.
type Table []Record
