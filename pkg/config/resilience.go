package config

import (
	"fmt"
	"strings"
	"time"
)

// CircuitBreakerConfig controls the breaker in front of the remote store.
// The breaker only fails fast, it never re-issues a request.
type CircuitBreakerConfig struct {
	Enabled             bool          `koanf:"enabled"`
	ConsecutiveFailures uint32        `koanf:"consecutivefailures"`
	ErrorRatePercent    int           `koanf:"errorratepercent"`
	OpenTimeout         time.Duration `koanf:"opentimeout"`
	HalfOpenRequests    uint32        `koanf:"halfopenrequests"`
}

// String returns a string representation of the CircuitBreakerConfig.
func (c *CircuitBreakerConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Circuit Breaker ---\n")
	b.WriteString(fmt.Sprintf("  enabled: %t\n", c.Enabled))
	b.WriteString(fmt.Sprintf("  consecutivefailures: %d\n", c.ConsecutiveFailures))
	b.WriteString(fmt.Sprintf("  errorratepercent: %d\n", c.ErrorRatePercent))
	b.WriteString(fmt.Sprintf("  opentimeout: %v\n", c.OpenTimeout))
	b.WriteString(fmt.Sprintf("  halfopenrequests: %d\n", c.HalfOpenRequests))
	return b.String()
}

func (c *CircuitBreakerConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.ConsecutiveFailures == 0 {
		return fmt.Errorf("circuitbreaker.consecutivefailures must be greater than 0")
	}
	if c.ErrorRatePercent < 0 || c.ErrorRatePercent > 100 {
		return fmt.Errorf("circuitbreaker.errorratepercent must be between 0 and 100")
	}
	if c.OpenTimeout <= 0 {
		return fmt.Errorf("circuitbreaker.opentimeout must be greater than 0")
	}
	return nil
}
