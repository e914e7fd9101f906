package config

import (
	"os"
	"strconv"
	"time"
)

// Tunables holds process-level knobs read from the environment.
type Tunables struct {
	// MaxConcurrency bounds concurrent submissions; 0 means unbounded.
	MaxConcurrency      int
	PublishMaxAttempts  int
	PublishInitialDelay time.Duration
}

// LoadTunables reads tunables from environment variables, falling back to
// defaults for unset or invalid values.
//
// Environment Variables:
//   - EKSGRAPH_MAX_CONCURRENCY (default: 0, unbounded)
//   - EKSGRAPH_PUBLISH_MAX_ATTEMPTS (default: 5)
//   - EKSGRAPH_PUBLISH_INITIAL_DELAY (default: 1s)
func LoadTunables() *Tunables {
	return &Tunables{
		MaxConcurrency:      parseInt("EKSGRAPH_MAX_CONCURRENCY", 0),
		PublishMaxAttempts:  parseInt("EKSGRAPH_PUBLISH_MAX_ATTEMPTS", 5),
		PublishInitialDelay: parseDuration("EKSGRAPH_PUBLISH_INITIAL_DELAY", 1*time.Second),
	}
}

func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d < 0 {
		return defaultVal
	}
	return d
}

func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return defaultVal
	}
	return i
}
