// Package config loads runtime configuration for the govadmin CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: GOVADMIN_* variables, with a .env file in the working
//     directory loaded first (see parseEnv).
//  3. Optional JSON or TOML file (see parseFile) selected via -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// # File schema
//
// Durations use timex.Duration, so they can be strings like "15s":
//
//	server_base_url = "https://admin.example.gov.br/api"
//	request_timeout = "15s"
//	store_driver    = "bolt"
//	page_size       = 20
//
// The JSON form uses the same keys.
package config
