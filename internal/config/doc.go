// Package config handles configuration loading for hub-server.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  jwt_secret: "${HUB_JWT_SECRET}"
//
// Syntax: ${VAR_NAME}. Unset variables expand to the empty string.
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	auth:
//	  session_ttl: "12h"
//	  remember_ttl: "720h"
//
// Supported units: ns, us, ms, s, m, h
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "0.0.0.0:8080"
//
// Database:
//
//	database:
//	  path: "/var/lib/hub/hub.db"
//
// Authentication:
//
//	auth:
//	  jwt_secret: "${HUB_JWT_SECRET}"  # Required
//	  session_ttl: "12h"               # Token lifetime without "remember me"
//	  remember_ttl: "720h"             # Token lifetime with "remember me"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// Metrics:
//
//	metrics:
//	  enabled: true
//	  path: "/metrics"
//
// Offline asset cache:
//
//	offline:
//	  enabled: true
//	  origin: "https://hub.example.com"
//
// # Usage
//
// Load configuration from a path:
//
//	cfg, err := config.Load("/etc/hub/server.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
