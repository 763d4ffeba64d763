// Package config holds the configuration of the productmanager command.
package config

import (
	"fmt"
	"strings"

	"github.com/abgdnv/produtos/internal/notify"
	"github.com/abgdnv/produtos/internal/product"
	"github.com/abgdnv/produtos/pkg/config"
	"github.com/abgdnv/produtos/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

// Defaults used when neither config.yaml nor the environment set a key.
var Defaults = map[string]any{
	"remote.baseurl":                     "http://localhost:5000",
	"remote.timeout":                     "10s",
	"circuitbreaker.enabled":             false,
	"circuitbreaker.consecutivefailures": 5,
	"circuitbreaker.errorratepercent":    50,
	"circuitbreaker.opentimeout":         "30s",
	"circuitbreaker.halfopenrequests":    1,
	"log.level":                          "warn",
	"log.format":                         "text",
	"manager.validation":                 product.StrategySchema,
	"manager.notifications":              notify.StrategyAlert,
	"telemetry.enabled":                  false,
	"telemetry.traces.otlphttp.endpoint": "localhost:4318",
	"telemetry.traces.otlphttp.insecure": true,
	"telemetry.traces.otlphttp.timeout":  "5s",
	"telemetry.traces.sample_ratio":      1.0,
}

// ManagerConfig selects the strategies of the product manager.
type ManagerConfig struct {
	Validation    string `koanf:"validation"`
	Notifications string `koanf:"notifications"`
}

func (c *ManagerConfig) Validate() error {
	if _, err := product.NewValidator(c.Validation); err != nil {
		return err
	}
	switch c.Notifications {
	case "", notify.StrategyAlert, notify.StrategyStyled, notify.StrategyLog:
		return nil
	default:
		return fmt.Errorf("unknown notification strategy: %q", c.Notifications)
	}
}

type Config struct {
	Remote         config.RemoteConfig         `koanf:"remote"`
	CircuitBreaker config.CircuitBreakerConfig `koanf:"circuitbreaker"`
	Log            config.LogConfig            `koanf:"log"`
	Telemetry      config.TelemetryConfig      `koanf:"telemetry"`
	Manager        ManagerConfig               `koanf:"manager"`
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.Remote.String())
	b.WriteString(c.CircuitBreaker.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.Telemetry.String())
	b.WriteString("\n--- Manager ---\n")
	b.WriteString(fmt.Sprintf("  manager.validation: %s\n", c.Manager.Validation))
	b.WriteString(fmt.Sprintf("  manager.notifications: %s\n", c.Manager.Notifications))
	return b.String()
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	if err := c.Remote.Validate(); err != nil {
		return err
	}
	if err := c.CircuitBreaker.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.Telemetry.Validate(); err != nil {
		return err
	}
	return c.Manager.Validate()
}
