package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// RemoteConfig points the client at the /produtos backend.
type RemoteConfig struct {
	BaseURL string        `koanf:"baseurl"`
	Timeout time.Duration `koanf:"timeout"`
}

// String returns a string representation of the remote configuration.
func (c *RemoteConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Remote ---\n")
	b.WriteString(fmt.Sprintf("  baseurl: %s\n", c.BaseURL))
	b.WriteString(fmt.Sprintf("  timeout: %s\n", c.Timeout))
	return b.String()
}

func (c *RemoteConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("remote base URL is not configured")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid remote base URL %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("remote base URL must use http or https: %s", c.BaseURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("remote timeout must not be negative: %v", c.Timeout)
	}
	return nil
}
