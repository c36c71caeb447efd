// Package config loads the engine configuration.
//
// Precedence: built-in defaults, then an optional YAML file, then
// environment variables prefixed with AGENTSCOUT. Nested keys join with
// underscores, e.g. AGENTSCOUT_REDIS_ADDR.
package config
