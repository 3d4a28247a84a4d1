// internal/workers/conversation/dispatch-action/config.go
package dispatchaction

import "time"

type Config struct {
	Timeout time.Duration
	// EmptyResultMarker replaces the recipe list in instructions when a query found nothing.
	EmptyResultMarker string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:           30 * time.Second,
		EmptyResultMarker: "N",
	}
}
