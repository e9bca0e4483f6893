// Package normalize derives the underlying symbol and strike price of
// scrip master rows from their exchange trading symbols.
package normalize

import (
	"regexp"
	"strings"

	"github.com/rickgao/bfo-scripmaster/internal/model"
)

// DefaultIndexNames lists the BFO index underlyings in match priority order.
// SENSEX50 precedes SENSEX because the latter is a substring of the former.
var DefaultIndexNames = []string{"SENSEX50", "SENSEX", "BANKEX"}

var (
	// Shortest prefix before the first digit.
	stockSymbolRe = regexp.MustCompile(`^(.*?)(\d)`)

	// 5-character date segment, strike, 2-character option type.
	strikeRe = regexp.MustCompile(`^.{5}(.*).{2}$`)
)

// Normalizer turns raw scrip master rows into normalized records.
// It is safe for concurrent use.
type Normalizer struct {
	indexNames []string
}

// New creates a Normalizer matching index underlyings against indexNames in
// order. An empty list selects DefaultIndexNames.
func New(indexNames []string) *Normalizer {
	if len(indexNames) == 0 {
		indexNames = DefaultIndexNames
	}
	names := make([]string, len(indexNames))
	copy(names, indexNames)
	return &Normalizer{indexNames: names}
}

// IndexNames returns the configured index names in priority order.
func (n *Normalizer) IndexNames() []string {
	out := make([]string, len(n.indexNames))
	copy(out, n.indexNames)
	return out
}

// Normalize converts every raw row. The raw symbol label is discarded.
func (n *Normalizer) Normalize(raw model.RawTable) model.Table {
	out := make(model.Table, 0, len(raw.Records))
	for _, r := range raw.Records {
		out = append(out, n.NormalizeRecord(r))
	}
	return out
}

// NormalizeRecord converts a single raw row.
func (n *Normalizer) NormalizeRecord(r model.RawRecord) model.Record {
	rec := model.Record{
		Exchange:      r.Exchange,
		Token:         r.Token,
		LotSize:       r.LotSize,
		TradingSymbol: r.TradingSymbol,
		Expiry:        r.Expiry,
		Instrument:    r.Instrument,
		OptionType:    r.OptionType,
		Strike:        r.Strike,
	}

	switch r.Instrument {
	case model.InstrumentFutIdx:
		rec.Symbol = n.indexSymbol(r.TradingSymbol)
		rec.StrikePrice = "0"
	case model.InstrumentOptIdx:
		rec.Symbol = n.indexSymbol(r.TradingSymbol)
		rec.StrikePrice = optionStrike(r.TradingSymbol, rec.Symbol)
	case model.InstrumentFutStk:
		rec.Symbol = StockSymbol(r.TradingSymbol)
		rec.StrikePrice = "0"
	case model.InstrumentOptStk:
		rec.Symbol = StockSymbol(r.TradingSymbol)
		rec.StrikePrice = optionStrike(r.TradingSymbol, rec.Symbol)
	}

	return rec
}

// indexSymbol returns the first index name contained in tradingSymbol.
func (n *Normalizer) indexSymbol(tradingSymbol string) string {
	for _, name := range n.indexNames {
		if strings.Contains(tradingSymbol, name) {
			return name
		}
	}
	return ""
}

// StockSymbol returns the part of tradingSymbol before its first digit, or
// "" if it has no digit.
func StockSymbol(tradingSymbol string) string {
	m := stockSymbolRe.FindStringSubmatch(tradingSymbol)
	if m == nil {
		return ""
	}
	return m[1]
}

// optionStrike extracts the strike segment that follows symbol in
// tradingSymbol, or "0" when none can be found.
func optionStrike(tradingSymbol, symbol string) string {
	if symbol == "" {
		return "0"
	}
	parts := strings.Split(tradingSymbol, symbol)
	if len(parts) < 2 {
		return "0"
	}
	m := strikeRe.FindStringSubmatch(parts[1])
	if m == nil || m[1] == "" {
		return "0"
	}
	return m[1]
}
