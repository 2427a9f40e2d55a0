// Package config handles configuration loading for healthbot.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable
// expansion. The package provides validation of the required sections.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from HEALTHBOT_CONFIG environment variable
//  2. ./config.yaml (current directory)
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	watson:
//	  password: "${WATSON_PASSWORD}"
//
// # Configuration Sections
//
// Server (the websocket listener):
//
//	server:
//	  http_addr: "0.0.0.0:8080"
//
// Database:
//
//	database:
//	  path: "/var/lib/healthbot/healthbot.db"
//
// Dialog engine (required):
//
//	watson:
//	  url: "https://gateway.watsonplatform.net/conversation/api"
//	  username: "${WATSON_USERNAME}"
//	  password: "${WATSON_PASSWORD}"
//	  workspace_id: "${WATSON_WORKSPACE_ID}"
//
// Places lookup (optional; omit to disable):
//
//	foursquare:
//	  client_id: "${FOURSQUARE_CLIENT_ID}"
//	  client_secret: "${FOURSQUARE_CLIENT_SECRET}"
//
// Team-chat integration (optional):
//
//	matrix:
//	  enabled: true
//	  homeserver: "https://matrix.example.com"
//	  user_id: "@healthbot:example.com"
//	  access_token: "${MATRIX_ACCESS_TOKEN}"
//	  allowed_users: []
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
package config
