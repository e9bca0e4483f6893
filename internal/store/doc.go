// Package store persists normalized scrip master tables by name.
//
// Drivers:
//   - file: one CSV file per table under a directory (default)
//   - sqlite: rows in a local SQLite database
//   - postgres: rows in a PostgreSQL database, bulk loaded with COPY
//   - redis: a JSON blob per table
//
// Every driver records when a table was last written. The refresh policy
// compares that time against the current date to decide whether the
// cached table is still today's.
package store
