// Package config handles YAML configuration loading with environment variable substitution.
//
// Sources, in increasing precedence:
//   - the YAML file, with ${VAR} interpolation
//   - SCRIPMASTER_* environment variables (e.g. SCRIPMASTER_API_BASE_URL)
//
// LoadDotEnv populates the process environment from a .env file first.
package config
