// Package catalog serves identifier lookups over a loaded scrip master.
//
// A Loader resolves each (segment, hard refresh) pair at most once and
// memoizes the resulting Catalog. Concurrent opens of the same key share a
// single resolve. A hard refresh drops the memoized entry first, so it
// always reaches the refresh policy.
//
// A Catalog is an immutable snapshot. Its queries never fetch and are safe
// for concurrent use:
//   - Expiry / Expiries: sorted distinct expiry dates of an underlying
//   - TradingSymbol: the trading symbol of one contract
//   - Token: the exchange token of one contract
//   - StrikeDiff: the smallest gap between listed strikes
//
// Every failed query returns an error that matches ErrInvalidQuery,
// ErrNotFound or ErrExpiryNotFound under errors.Is.
package catalog
