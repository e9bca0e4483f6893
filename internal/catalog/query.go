package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/rickgao/bfo-scripmaster/internal/metrics"
	"github.com/rickgao/bfo-scripmaster/internal/model"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Expiry ranks.
const (
	ExpiryNear = "near"
	ExpiryNext = "next"
	ExpiryFar  = "far"
	ExpiryAll  = "all"
)

var expiryRank = map[string]int{
	ExpiryNear: 0,
	ExpiryNext: 1,
	ExpiryFar:  2,
}

// ExpiryQuery selects an underlying (Symbol + Instrument) or a single
// contract (TradingSymbol). TradingSymbol takes precedence.
type ExpiryQuery struct {
	Symbol        string `validate:"required_without=TradingSymbol"`
	TradingSymbol string
	Instrument    string `validate:"oneof=FUTIDX OPTIDX FUTSTK OPTSTK"` // Default OPTIDX
	Type          string `validate:"oneof=near next far all"`           // Default near
}

func (q *ExpiryQuery) applyDefaults() {
	q.Symbol = strings.ToUpper(q.Symbol)
	q.TradingSymbol = strings.ToUpper(q.TradingSymbol)
	if q.Instrument == "" {
		q.Instrument = model.InstrumentOptIdx
	}
	if q.Type == "" {
		q.Type = ExpiryNear
	}
}

// ContractQuery identifies one contract, either by its attributes or by
// TradingSymbol.
type ContractQuery struct {
	Symbol        string `validate:"required_without=TradingSymbol"`
	TradingSymbol string
	Instrument    string `validate:"oneof=FUTIDX OPTIDX FUTSTK OPTSTK"` // Default OPTIDX
	Expiry        string `validate:"required_without=TradingSymbol"`
	OptionType    string `validate:"oneof=CE PE XX"` // Default XX
	StrikePrice   string `validate:"numeric"`        // Default "0"
}

func (q *ContractQuery) applyDefaults() {
	q.Symbol = strings.ToUpper(q.Symbol)
	q.TradingSymbol = strings.ToUpper(q.TradingSymbol)
	if q.Instrument == "" {
		q.Instrument = model.InstrumentOptIdx
	}
	if q.OptionType == "" {
		q.OptionType = model.OptionNone
	}
	if q.StrikePrice == "" {
		q.StrikePrice = "0"
	}
}

func (q ContractQuery) matches(r model.Record) bool {
	return r.Symbol == q.Symbol &&
		r.Instrument == q.Instrument &&
		r.Expiry == q.Expiry &&
		r.OptionType == q.OptionType &&
		r.StrikePrice == q.StrikePrice
}

// Expiry returns the near, next or far expiry of the selection.
func (c *Catalog) Expiry(q ExpiryQuery) (string, error) {
	const op = "expiry"
	q.applyDefaults()
	if err := c.check(op, q); err != nil {
		return "", err
	}
	rank, ok := expiryRank[q.Type]
	if !ok {
		return "", c.invalid(op, fmt.Errorf("type %q selects a list, use Expiries", q.Type))
	}

	expiries, err := c.expiries(op, q)
	if err != nil {
		return "", err
	}
	if rank >= len(expiries) {
		c.logger.Debug("expiry rank out of range", "op", op, "type", q.Type, "available", len(expiries))
		c.metrics.ObserveLookup(op, metrics.LookupMiss)
		return "", fmt.Errorf("%s: %w: %s needs %d expiries, have %d", op, ErrExpiryNotFound, q.Type, rank+1, len(expiries))
	}
	c.metrics.ObserveLookup(op, metrics.LookupHit)
	return expiries[rank], nil
}

// Expiries returns every expiry of the selection in ascending date order.
// Type is ignored.
func (c *Catalog) Expiries(q ExpiryQuery) ([]string, error) {
	const op = "expiries"
	q.Type = ExpiryAll
	q.applyDefaults()
	if err := c.check(op, q); err != nil {
		return nil, err
	}
	expiries, err := c.expiries(op, q)
	if err != nil {
		return nil, err
	}
	c.metrics.ObserveLookup(op, metrics.LookupHit)
	return expiries, nil
}

func (c *Catalog) expiries(op string, q ExpiryQuery) ([]string, error) {
	bySymbol := q.Symbol != "" && q.TradingSymbol == ""

	seen := make(map[time.Time]struct{})
	var dates []time.Time
	for _, r := range c.records {
		if bySymbol {
			if r.Symbol != q.Symbol || r.Instrument != q.Instrument {
				continue
			}
		} else if r.TradingSymbol != q.TradingSymbol {
			continue
		}

		d, err := time.Parse(model.ExpiryLayout, r.Expiry)
		if err != nil {
			c.logger.Debug("skipping unparseable expiry", "tradingsymbol", r.TradingSymbol, "expiry", r.Expiry)
			continue
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		dates = append(dates, d)
	}

	if len(dates) == 0 {
		return nil, c.miss(op, "symbol", q.Symbol, "tradingsymbol", q.TradingSymbol, "instrument", q.Instrument)
	}

	slices.SortFunc(dates, func(a, b time.Time) int { return a.Compare(b) })
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = strings.ToUpper(d.Format(model.ExpiryLayout))
	}
	return out, nil
}

// TradingSymbol returns the trading symbol of the contract described by
// Symbol, Instrument, Expiry, OptionType and StrikePrice. The first match
// wins.
func (c *Catalog) TradingSymbol(q ContractQuery) (string, error) {
	const op = "tradingsymbol"
	q.applyDefaults()
	if err := c.check(op, q); err != nil {
		return "", err
	}
	if q.Symbol == "" || q.Expiry == "" {
		return "", c.invalid(op, errors.New("symbol and expiry are required"))
	}

	for _, r := range c.records {
		if q.matches(r) {
			c.metrics.ObserveLookup(op, metrics.LookupHit)
			return r.TradingSymbol, nil
		}
	}
	return "", c.miss(op, "symbol", q.Symbol, "instrument", q.Instrument, "expiry", q.Expiry,
		"optiontype", q.OptionType, "strikeprice", q.StrikePrice)
}

// Token returns the exchange token of a contract. With Symbol set and
// TradingSymbol empty the contract attributes are matched; otherwise the
// trading symbol alone is.
func (c *Catalog) Token(q ContractQuery) (string, error) {
	const op = "token"
	q.applyDefaults()
	if err := c.check(op, q); err != nil {
		return "", err
	}

	bySymbol := q.Symbol != "" && q.TradingSymbol == ""
	for _, r := range c.records {
		if (bySymbol && q.matches(r)) || (!bySymbol && r.TradingSymbol == q.TradingSymbol) {
			c.metrics.ObserveLookup(op, metrics.LookupHit)
			return r.Token, nil
		}
	}
	return "", c.miss(op, "symbol", q.Symbol, "tradingsymbol", q.TradingSymbol, "expiry", q.Expiry)
}

// StrikeDiff returns the smallest gap between consecutive distinct
// positive strikes listed for symbol. Non-numeric strikes are ignored.
func (c *Catalog) StrikeDiff(symbol string) (decimal.Decimal, error) {
	const op = "strikediff"
	if strings.TrimSpace(symbol) == "" {
		return decimal.Zero, c.invalid(op, errors.New("symbol is required"))
	}
	symbol = strings.ToUpper(symbol)

	var strikes []decimal.Decimal
	for _, r := range c.records {
		if r.Symbol != symbol {
			continue
		}
		d, err := decimal.NewFromString(r.StrikePrice)
		if err != nil || !d.IsPositive() {
			continue
		}
		strikes = append(strikes, d)
	}

	slices.SortFunc(strikes, func(a, b decimal.Decimal) int { return a.Cmp(b) })
	strikes = slices.CompactFunc(strikes, func(a, b decimal.Decimal) bool { return a.Equal(b) })
	if len(strikes) < 2 {
		return decimal.Zero, c.miss(op, "symbol", symbol, "strikes", len(strikes))
	}

	minDiff := strikes[1].Sub(strikes[0])
	for i := 2; i < len(strikes); i++ {
		if d := strikes[i].Sub(strikes[i-1]); d.LessThan(minDiff) {
			minDiff = d
		}
	}
	c.metrics.ObserveLookup(op, metrics.LookupHit)
	return minDiff, nil
}

func (c *Catalog) check(op string, q any) error {
	if err := validate.Struct(q); err != nil {
		return c.invalid(op, err)
	}
	return nil
}

func (c *Catalog) invalid(op string, err error) error {
	c.logger.Debug("invalid scrip master query", "op", op, "err", err)
	c.metrics.ObserveLookup(op, metrics.LookupInvalid)
	return fmt.Errorf("%s: %w: %v", op, ErrInvalidQuery, err)
}

func (c *Catalog) miss(op string, attrs ...any) error {
	c.logger.Debug("scrip master lookup miss", append([]any{"op", op}, attrs...)...)
	c.metrics.ObserveLookup(op, metrics.LookupMiss)
	return fmt.Errorf("%s: %w", op, ErrNotFound)
}
