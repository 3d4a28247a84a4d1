// internal/workers/conversation/assistant-run/config.go
package assistantrun

import (
	"time"

	"lucy-chat/internal/common/config"
)

const DefaultFailedRunReply = "Sorry, I encountered an error processing your request."

type Config struct {
	AssistantID  string // empty: create one on first use
	Name         string
	Model        string
	Instructions string

	PollInterval    time.Duration
	MaxPollAttempts int           // 0 disables the attempt cap
	RunTimeout      time.Duration // 0 disables the overall deadline
	FailedRunReply  string
}

func LoadConfig() *Config {
	return &Config{
		Name:            config.DefaultAssistantName,
		Model:           config.DefaultAssistantModel,
		Instructions:    config.DefaultAssistantInstructions,
		PollInterval:    500 * time.Millisecond,
		MaxPollAttempts: 120,
		RunTimeout:      60 * time.Second,
		FailedRunReply:  DefaultFailedRunReply,
	}
}

// FromAppConfig maps the assistant section of the application config.
func FromAppConfig(cfg config.AssistantConfig) *Config {
	c := LoadConfig()
	c.AssistantID = cfg.AssistantID
	if cfg.Name != "" {
		c.Name = cfg.Name
	}
	if cfg.Model != "" {
		c.Model = cfg.Model
	}
	if cfg.Instructions != "" {
		c.Instructions = cfg.Instructions
	}
	c.PollInterval = config.GetDuration(cfg.PollInterval)
	c.MaxPollAttempts = cfg.MaxPollAttempts
	c.RunTimeout = config.GetDuration(cfg.RunTimeout)
	return c
}
