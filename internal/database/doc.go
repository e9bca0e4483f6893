// Package database opens the PostgreSQL connection pool used by the
// postgres scrip master store.
package database
