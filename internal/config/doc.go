// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional config.yaml. Variables use the
// USERTASK_ prefix with nested keys joined by underscores, for example
// USERTASK_CACHE_REDIS_URL.
package config
