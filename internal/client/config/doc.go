// Package config loads runtime configuration for the trip planner client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with --config/-c or TRIP_CLIENT_CONFIG.
//  3. Command-line flags that were set explicitly.
//
// # JSON schema
//
//	{
//	  "server_base_url": "http://127.0.0.1:8000",
//	  "inactivity_timeout": "30m",
//	  "request_timeout": "2m",
//	  "state_path": "/home/me/.config/trip-planner/state.db",
//	  "verbose": false
//	}
package config
