// internal/workers/catalog/lookup-product/config.go
package lookupproduct

import (
	"time"

	"lucy-chat/internal/common/config"
)

const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

type Config struct {
	Source  string
	Path    string
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Source:  SourceFile,
		Path:    "public/products.json",
		Timeout: 5 * time.Second,
	}
}

func FromAppConfig(cfg config.CatalogConfig) *Config {
	c := LoadConfig()
	if cfg.Source != "" {
		c.Source = cfg.Source
	}
	if cfg.Path != "" {
		c.Path = cfg.Path
	}
	return c
}
