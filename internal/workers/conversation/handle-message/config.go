// internal/workers/conversation/handle-message/config.go
package handlemessage

import "time"

const DefaultGreeting = "Hi there! I'm Lucy, your virtual cooking assistant. How can I help you today? :)"

type Config struct {
	Greeting string
	// Timeout bounds one submitted message end to end. 0 disables it.
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Greeting: DefaultGreeting,
		Timeout:  2 * time.Minute,
	}
}
