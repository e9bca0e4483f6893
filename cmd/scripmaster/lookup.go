package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rickgao/bfo-scripmaster/internal/catalog"
)

// lookup is the one-shot query assembled from flags.
type lookup struct {
	symbol        string
	tradingSymbol string
	instrument    string
	expiry        string // near, next, far, all or a date
	optionType    string
	strike        string
}

func (q lookup) requested() bool {
	return q.symbol != "" || q.tradingSymbol != ""
}

// run prints the answers for the query. With a symbol it prints the
// expiry (or all expiries) and the strike step; with a concrete expiry or
// a trading symbol it also resolves the contract.
func (q lookup) run(c *catalog.Catalog, w io.Writer) error {
	eq := catalog.ExpiryQuery{
		Symbol:        q.symbol,
		TradingSymbol: q.tradingSymbol,
		Instrument:    q.instrument,
	}

	expiry := q.expiry
	switch strings.ToLower(q.expiry) {
	case catalog.ExpiryAll:
		all, err := c.Expiries(eq)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "expiries\t%s\n", strings.Join(all, ","))
		return nil
	case catalog.ExpiryNear, catalog.ExpiryNext, catalog.ExpiryFar:
		eq.Type = strings.ToLower(q.expiry)
		e, err := c.Expiry(eq)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "expiry\t%s\n", e)
		expiry = e
	default:
		expiry = strings.ToUpper(q.expiry)
	}

	cq := catalog.ContractQuery{
		Symbol:        q.symbol,
		TradingSymbol: q.tradingSymbol,
		Instrument:    q.instrument,
		Expiry:        expiry,
		OptionType:    q.optionType,
		StrikePrice:   q.strike,
	}

	if q.tradingSymbol == "" {
		ts, err := c.TradingSymbol(cq)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "tradingsymbol\t%s\n", ts)
	}

	token, err := c.Token(cq)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "token\t%s\n", token)

	if q.symbol != "" {
		if diff, err := c.StrikeDiff(q.symbol); err == nil {
			fmt.Fprintf(w, "strikediff\t%s\n", diff.String())
		}
	}
	return nil
}
