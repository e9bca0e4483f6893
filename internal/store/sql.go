package store

import (
	"strings"

	"github.com/rickgao/bfo-scripmaster/internal/model"
)

// Table names shared by the sqlite and postgres drivers.
const (
	rowsTable = "scrip_master"
	metaTable = "scrip_master_meta"
)

// columnList is the comma-separated record column list.
var columnList = strings.Join(model.Columns, ", ")

func recordArgs(rec model.Record) []any {
	values := rec.Values()
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}

// scanner is satisfied by *sql.Rows and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (model.Record, error) {
	var r model.Record
	err := row.Scan(
		&r.Exchange, &r.Token, &r.LotSize, &r.Symbol, &r.TradingSymbol,
		&r.Expiry, &r.Instrument, &r.OptionType, &r.StrikePrice, &r.Strike,
	)
	return r, err
}
