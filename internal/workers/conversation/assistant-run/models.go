// internal/workers/conversation/assistant-run/models.go
package assistantrun

import (
	"context"

	"lucy-chat/internal/models"
)

// AssistantClient is the asynchronous assistant API.
type AssistantClient interface {
	CreateAssistant(ctx context.Context, spec models.AssistantSpec) (string, error)
	CreateThread(ctx context.Context) (string, error)
	CreateMessage(ctx context.Context, threadID, text string) error
	CreateRun(ctx context.Context, threadID, assistantID string) (models.AssistantRun, error)
	GetRun(ctx context.Context, threadID, runID string) (models.AssistantRun, error)
	ListMessages(ctx context.Context, threadID string) ([]models.ThreadMessage, error)
}

// Reply is what the session appends as the assistant turn.
type Reply struct {
	Text    string
	Recipes []models.Recipe
	RunID   string
	Status  models.RunStatus
	Polls   int
}

// transitions lists the statuses reachable from each non-terminal status.
var transitions = map[models.RunStatus]map[models.RunStatus]bool{
	models.RunQueued: {
		models.RunQueued:     true,
		models.RunInProgress: true,
		models.RunCompleted:  true,
		models.RunFailed:     true,
	},
	models.RunInProgress: {
		models.RunInProgress: true,
		models.RunCompleted:  true,
		models.RunFailed:     true,
	},
}

// normalizeStatus maps API statuses outside the state machine to Failed.
func normalizeStatus(s models.RunStatus) models.RunStatus {
	switch s {
	case models.RunQueued, models.RunInProgress, models.RunCompleted, models.RunFailed:
		return s
	default:
		return models.RunFailed
	}
}
