// internal/workers/conversation/handle-message/models.go
package handlemessage

import (
	"context"
	"time"

	"lucy-chat/internal/models"
	assistantrun "lucy-chat/internal/workers/conversation/assistant-run"
)

type IntentClassifier interface {
	Classify(text string, known []models.Recipe) models.Intent
}

type ActionDispatcher interface {
	Dispatch(ctx context.Context, intent models.Intent, cart []models.CartLine) (*models.ActionOutcome, error)
}

type AssistantRunner interface {
	EnsureAssistant(ctx context.Context) (string, error)
	NewThread(ctx context.Context) (string, error)
	Run(ctx context.Context, threadID string, outcome *models.ActionOutcome) (*assistantrun.Reply, error)
}

// RecipeSource supplies the recipes the classifier resolves names against.
type RecipeSource interface {
	All(ctx context.Context) ([]models.Recipe, error)
}

// CartReader supplies the cart snapshot for one dispatch.
type CartReader interface {
	Lines(ctx context.Context) ([]models.CartLine, error)
}

type TurnErrorHandler interface {
	HandleTurnError(ctx context.Context, sessionID string, err error) string
}

// MessageRecorder receives per-message telemetry.
type MessageRecorder interface {
	RecordMessageProcessed(ctx context.Context, status string)
	RecordMessageDuration(ctx context.Context, duration time.Duration, status string)
}

// Dependencies groups the collaborators of the handler.
type Dependencies struct {
	Classifier IntentClassifier
	Dispatcher ActionDispatcher
	Runner     AssistantRunner
	Recipes    RecipeSource
	Cart       CartReader
	Errors     TurnErrorHandler
}
