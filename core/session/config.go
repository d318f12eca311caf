package session

import "time"

// Config holds configuration for the session tracker.
type Config struct {
	// RedisURL is the Redis endpoint holding live sessions.
	RedisURL string `mapstructure:"redis_url" default:"redis://localhost:6379/0"`
	// TTLSeconds is the sliding idle timeout of a session.
	TTLSeconds int `mapstructure:"ttl_seconds" default:"1200"`
	// CookieName is the cookie carrying the session id.
	CookieName string `mapstructure:"cookie_name" default:"xdb_session"`
	// Prefix namespaces the Redis keys.
	Prefix string `mapstructure:"prefix" default:"session:"`
	// Facets lists the facet keys loaded into the session on reload.
	Facets []string `mapstructure:"facets" default:"Personal"`
}

// TTL returns the idle timeout, defaulting to 20 minutes.
func (c Config) TTL() time.Duration {
	if c.TTLSeconds <= 0 {
		return 20 * time.Minute
	}
	return time.Duration(c.TTLSeconds) * time.Second
}
