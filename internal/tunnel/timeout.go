package tunnel

import (
	"strings"
	"time"
)

var healthSuffixes = []string{"/health", "/healthz", "/ready", "/status"}

// IsHealthPath reports whether path looks like a liveness probe.
func IsHealthPath(path string) bool {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.ToLower(strings.TrimRight(path, "/"))
	if path == "" {
		return false
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for _, s := range healthSuffixes {
		if strings.HasSuffix(path, s) {
			return true
		}
	}
	return false
}

// Budget selects a request timeout by path class.
type Budget struct {
	Health  time.Duration
	Default time.Duration
}

// For returns the timeout for a request to path.
func (b Budget) For(path string) time.Duration {
	if IsHealthPath(path) {
		return b.Health
	}
	return b.Default
}
