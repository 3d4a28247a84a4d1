// internal/workers/cart/cart-gateway/config.go
package cartgateway

import "lucy-chat/internal/common/config"

type Config struct {
	UserID    string
	KeyPrefix string
	// MaxRetries bounds optimistic transaction retries under contention.
	MaxRetries int
}

func LoadConfig() *Config {
	return &Config{
		UserID:     "1",
		KeyPrefix:  "lucy:cart",
		MaxRetries: 5,
	}
}

func FromAppConfig(cfg config.CartConfig) *Config {
	c := LoadConfig()
	if cfg.UserID != "" {
		c.UserID = cfg.UserID
	}
	if cfg.KeyPrefix != "" {
		c.KeyPrefix = cfg.KeyPrefix
	}
	return c
}

// Key returns the Redis key holding the cart.
func (c *Config) Key() string {
	return c.KeyPrefix + ":" + c.UserID
}
