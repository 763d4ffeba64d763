package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TelemetryConfig controls trace export. When disabled, spans are still created
// locally so trace ids reach logs and outgoing headers.
type TelemetryConfig struct {
	Enabled bool         `koanf:"enabled"`
	Traces  TracesConfig `koanf:"traces"`
}

// TracesConfig selects the collector and the share of root traces that get sampled.
type TracesConfig struct {
	SampleRatio float64        `koanf:"sample_ratio"`
	OTLPHTTP    OTLPHTTPConfig `koanf:"otlphttp"`
}

// OTLPHTTPConfig points at an OTLP/HTTP collector. Endpoint is host[:port] without scheme.
type OTLPHTTPConfig struct {
	Endpoint string        `koanf:"endpoint"`
	URLPath  string        `koanf:"url_path"`
	Insecure bool          `koanf:"insecure"`
	Timeout  time.Duration `koanf:"timeout"`
}

func (c *TelemetryConfig) String() string {
	exp := c.Traces.OTLPHTTP
	return fmt.Sprintf("\n--- Telemetry ---\n  enabled: %t\n  traces.sample_ratio: %g\n"+
		"  traces.otlphttp: endpoint=%s url_path=%q insecure=%t timeout=%s\n",
		c.Enabled, c.Traces.SampleRatio, exp.Endpoint, exp.URLPath, exp.Insecure, exp.Timeout)
}

func (c *TelemetryConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	exp := c.Traces.OTLPHTTP
	switch {
	case exp.Endpoint == "":
		return errors.New("telemetry is enabled but traces.otlphttp.endpoint is empty")
	case strings.Contains(exp.Endpoint, "://"):
		return fmt.Errorf("traces.otlphttp.endpoint must be host[:port] without scheme: %q", exp.Endpoint)
	case exp.URLPath != "" && !strings.HasPrefix(exp.URLPath, "/"):
		return fmt.Errorf("traces.otlphttp.url_path must start with '/': %q", exp.URLPath)
	case exp.Timeout <= 0:
		return fmt.Errorf("traces.otlphttp.timeout must be greater than 0: %v", exp.Timeout)
	case c.Traces.SampleRatio < 0 || c.Traces.SampleRatio > 1:
		return fmt.Errorf("traces.sample_ratio must be within [0, 1]: %g", c.Traces.SampleRatio)
	}
	return nil
}
