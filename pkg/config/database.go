package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// StorageConfig selects where the backend keeps products.
type StorageConfig struct {
	Kind     string         `koanf:"kind"`
	Database DatabaseConfig `koanf:"database"`
}

type DatabaseConfig struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
	Migrate bool          `koanf:"migrate"`
}

// String returns a string representation of the storage configuration.
func (c *StorageConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Storage ---\n")
	b.WriteString(fmt.Sprintf("  kind: %s\n", c.Kind))
	if c.Kind == StoragePostgres {
		b.WriteString(fmt.Sprintf("  database.url: %s\n", MaskURL(c.Database.URL)))
		b.WriteString(fmt.Sprintf("  database.timeout: %s\n", c.Database.Timeout))
		b.WriteString(fmt.Sprintf("  database.migrate: %t\n", c.Database.Migrate))
	}
	return b.String()
}

func (c *StorageConfig) Validate() error {
	switch c.Kind {
	case "", StorageMemory:
		return nil
	case StoragePostgres:
		return c.Database.Validate()
	default:
		return fmt.Errorf("unknown storage kind: %q", c.Kind)
	}
}

func (c *DatabaseConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("database URL is not configured")
	}
	if !isValidPostgresURL(c.URL) {
		return fmt.Errorf("database URL must start with 'postgres://': %s", MaskURL(c.URL))
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("database connect timeout must be greater than 0")
	}
	return nil
}

// MaskURL hides the credentials part of a connection URL.
func MaskURL(url string) string {
	if url == "" {
		return "<not configured>"
	}
	parts := strings.Split(url, "@")
	if len(parts) == 2 {
		return "****@" + parts[1]
	}
	return "****"
}

// isValidPostgresURL checks if the provided URL is a valid PostgreSQL URL
func isValidPostgresURL(url string) bool {
	return strings.HasPrefix(url, "postgres://") ||
		strings.HasPrefix(url, "postgresql://")
}
