package config

import (
	"fmt"
	"strings"
)

// ObservabilityConfig groups the debug listeners a process may expose.
type ObservabilityConfig struct {
	PProf struct {
		Enabled bool   `koanf:"enabled"`
		Addr    string `koanf:"addr"`
	} `koanf:"pprof"`
	Metrics struct {
		Enabled bool   `koanf:"enabled"`
		Path    string `koanf:"path"`
	} `koanf:"metrics"`
}

// String returns a string representation of the observability configuration.
func (c *ObservabilityConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Observability ---\n")
	b.WriteString(fmt.Sprintf("  pprof.enabled: %t\n", c.PProf.Enabled))
	b.WriteString(fmt.Sprintf("  pprof.addr: %s\n", c.PProf.Addr))
	b.WriteString(fmt.Sprintf("  metrics.enabled: %t\n", c.Metrics.Enabled))
	b.WriteString(fmt.Sprintf("  metrics.path: %s\n", c.Metrics.Path))
	return b.String()
}

func (c *ObservabilityConfig) Validate() error {
	if c.PProf.Enabled && c.PProf.Addr == "" {
		return fmt.Errorf("pprof is enabled but address is not configured")
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics path must start with '/': %q", c.Metrics.Path)
	}
	return nil
}
