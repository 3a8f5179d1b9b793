package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	keys, err := ParseEdgeKeys(c.Auth.EdgeKeysRaw)
	if err != nil {
		return fmt.Errorf("auth.edge_keys: %w", err)
	}
	c.Auth.EdgeKeys = keys

	if c.Ingest.MaxBatchSize <= 0 || c.Ingest.MaxBatchSize > 1000 {
		return fmt.Errorf("ingest.max_batch_size must be in [1, 1000] (got %d)", c.Ingest.MaxBatchSize)
	}

	if err := c.Tunnel.validate(); err != nil {
		return fmt.Errorf("tunnel: %w", err)
	}

	if c.Server.WriteTimeout <= c.Tunnel.RequestTimeout {
		return fmt.Errorf("server.write_timeout (%v) must exceed tunnel.request_timeout (%v)",
			c.Server.WriteTimeout, c.Tunnel.RequestTimeout)
	}

	if c.Storage.SigningEnabled() && c.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket is required when signing credentials are set")
	}

	if c.Rebuild.PageSize <= 0 || c.Rebuild.PageSize > 10000 {
		return fmt.Errorf("rebuild.page_size must be in [1, 10000] (got %d)", c.Rebuild.PageSize)
	}

	return nil
}

func (t *TunnelConfig) validate() error {
	if t.HealthTimeout <= 0 {
		return fmt.Errorf("health_timeout must be > 0 (got %v)", t.HealthTimeout)
	}
	if t.RequestTimeout < t.HealthTimeout {
		return fmt.Errorf("request_timeout (%v) must be >= health_timeout (%v)", t.RequestTimeout, t.HealthTimeout)
	}
	if t.PingInterval <= 0 || t.PongWait <= t.PingInterval {
		return fmt.Errorf("pong_wait (%v) must exceed ping_interval (%v)", t.PongWait, t.PingInterval)
	}
	if t.MaxMessageBytes <= 0 {
		return fmt.Errorf("max_message_bytes must be > 0 (got %d)", t.MaxMessageBytes)
	}
	return nil
}

// ParseEdgeKeys parses a comma-separated list of "origin:hash" pairs into
// a map keyed by origin. An empty string returns an empty map.
func ParseEdgeKeys(raw string) (map[string]string, error) {
	keys := make(map[string]string)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return keys, nil
	}

	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		origin, hash, ok := strings.Cut(pair, ":")
		origin = strings.TrimSpace(origin)
		hash = strings.TrimSpace(hash)
		if !ok || origin == "" || hash == "" {
			return nil, fmt.Errorf("invalid pair %q (want origin:hash)", pair)
		}
		if _, dup := keys[origin]; dup {
			return nil, fmt.Errorf("duplicate origin %q", origin)
		}
		keys[origin] = hash
	}

	return keys, nil
}
