package catalog

import "errors"

var (
	// ErrInvalidQuery is returned for malformed query arguments.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrNotFound is returned when no row matches a query.
	ErrNotFound = errors.New("no matching scrip")

	// ErrExpiryNotFound is returned when fewer expiries exist than the
	// requested rank.
	ErrExpiryNotFound = errors.New("expiry rank out of range")
)
