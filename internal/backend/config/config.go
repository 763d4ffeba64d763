// Package config holds the configuration of the produtos development backend.
package config

import (
	"strings"

	"github.com/abgdnv/produtos/pkg/config"
	"github.com/abgdnv/produtos/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

// Defaults reproduce the json-server setup the front end was written against.
var Defaults = map[string]any{
	"server.port":                        5000,
	"server.maxHeaderBytes":              1 << 20,
	"server.timeout.read":                "10s",
	"server.timeout.write":               "10s",
	"server.timeout.idle":                "60s",
	"server.timeout.readHeader":          "5s",
	"storage.kind":                       config.StorageMemory,
	"storage.database.timeout":           "5s",
	"storage.database.migrate":           true,
	"log.level":                          "info",
	"log.format":                         "json",
	"observability.pprof.enabled":        false,
	"observability.pprof.addr":           "localhost:6060",
	"observability.metrics.enabled":      true,
	"observability.metrics.path":         "/metrics",
	"telemetry.enabled":                  false,
	"telemetry.traces.otlphttp.endpoint": "localhost:4318",
	"telemetry.traces.otlphttp.insecure": true,
	"telemetry.traces.otlphttp.timeout":  "5s",
	"telemetry.traces.sample_ratio":      1.0,
	"shutdown.timeout":                   "10s",
}

type Config struct {
	HTTPServer    config.ServerConfig        `koanf:"server"`
	Storage       config.StorageConfig       `koanf:"storage"`
	Log           config.LogConfig           `koanf:"log"`
	Observability config.ObservabilityConfig `koanf:"observability"`
	Telemetry     config.TelemetryConfig     `koanf:"telemetry"`
	Shutdown      config.ShutdownConfig      `koanf:"shutdown"`
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.Storage.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.Observability.String())
	b.WriteString(c.Telemetry.String())
	b.WriteString(c.Shutdown.String())
	return b.String()
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	if err := c.HTTPServer.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.Observability.Validate(); err != nil {
		return err
	}
	if err := c.Telemetry.Validate(); err != nil {
		return err
	}
	return c.Shutdown.Validate()
}
