package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/bfo-scripmaster/internal/model"
)

// Catalog is an immutable snapshot of a normalized scrip master.
type Catalog struct {
	id       uuid.UUID
	segment  model.Segment
	loadedAt time.Time
	records  model.Table
	settings
}

// NewCatalog wraps table. The catalog keeps its own copy.
func NewCatalog(segment model.Segment, table model.Table, opts ...Option) *Catalog {
	records := make(model.Table, len(table))
	copy(records, table)
	return &Catalog{
		id:       uuid.New(),
		segment:  segment,
		loadedAt: time.Now(),
		records:  records,
		settings: newSettings(opts),
	}
}

// ID identifies this snapshot.
func (c *Catalog) ID() uuid.UUID { return c.id }

// Segment returns the segment the catalog was loaded for.
func (c *Catalog) Segment() model.Segment { return c.segment }

// LoadedAt returns when the catalog was built.
func (c *Catalog) LoadedAt() time.Time { return c.loadedAt }

// Len returns the number of rows.
func (c *Catalog) Len() int { return len(c.records) }

// Records returns a copy of the rows.
func (c *Catalog) Records() model.Table {
	out := make(model.Table, len(c.records))
	copy(out, c.records)
	return out
}
