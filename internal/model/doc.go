// Package model defines shared data types for the BFO scrip master.
//
// Conventions:
//   - Every field is carried as a string, exactly as the exchange publishes it.
//   - The empty string stands for a missing (null) value.
//   - Expiries use the DD-MON-YYYY form (e.g. "28-DEC-2023").
package model
