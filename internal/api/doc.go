// Package api provides the HTTP client for the Flattrade scrip master service.
//
// Endpoints (relative to the base URL):
//   - bfoidx: BSE index derivatives
//   - bfostk: BSE stock derivatives
//
// Default base URL: https://pidata.flattrade.in/scripmaster/json
//
// The client makes a single attempt per fetch. Callers decide how to recover.
package api
