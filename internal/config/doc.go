// Package config handles configuration loading for the Sentinel client.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable
// expansion. A missing file is fine; every field has a default.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from SENTINEL_CONFIG environment variable
//  2. ./sentinel.yaml (current directory)
//  3. ~/.config/sentinel/config.yaml
//
// # Sections
//
// Backend connection:
//
//	server:
//	  base_url: "http://127.0.0.1:8000"
//	  timeout: "30s"
//
// SENTINEL_SERVER overrides server.base_url.
//
// Local transcript history:
//
//	database:
//	  path: "~/.config/sentinel/history.db"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	server:
//	  base_url: "${SENTINEL_BACKEND}"
//
// Syntax: ${VAR_NAME}
package config
