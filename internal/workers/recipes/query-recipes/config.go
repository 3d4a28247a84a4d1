// internal/workers/recipes/query-recipes/config.go
package queryrecipes

import (
	"strings"
	"time"

	"lucy-chat/internal/common/config"
)

type Config struct {
	BaseURL        string
	Timeout        time.Duration
	CacheTTL       time.Duration // 0 disables caching
	CacheKeyPrefix string
}

func LoadConfig() *Config {
	return &Config{
		BaseURL:        config.DefaultRecipesBaseURL,
		Timeout:        10 * time.Second,
		CacheTTL:       5 * time.Minute,
		CacheKeyPrefix: "lucy:recipes",
	}
}

func FromAppConfig(cfg config.RecipesConfig) *Config {
	c := LoadConfig()
	if cfg.BaseURL != "" {
		c.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.Timeout > 0 {
		c.Timeout = config.GetDuration(cfg.Timeout)
	}
	c.CacheTTL = time.Duration(cfg.CacheTTL) * time.Second
	return c
}
