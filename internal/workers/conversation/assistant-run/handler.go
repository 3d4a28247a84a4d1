// internal/workers/conversation/assistant-run/handler.go
package assistantrun

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	apperrors "lucy-chat/internal/common/errors"
	"lucy-chat/internal/models"

	"golang.org/x/time/rate"
)

const (
	TaskType = "assistant-run"
)

var (
	ErrRunTimeout        = errors.New("RUN_TIMEOUT")
	ErrRunPollExhausted  = errors.New("RUN_POLL_EXHAUSTED")
	ErrIllegalTransition = errors.New("RUN_ILLEGAL_TRANSITION")
)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// Recorder receives poll and run duration observations.
type Recorder interface {
	RecordPoll(status string)
	RecordRunDuration(outcome string, d time.Duration)
}

// Runner submits an instruction to a thread, starts a run and observes it until
// it reaches a terminal status.
type Runner struct {
	config   *Config
	client   AssistantClient
	logger   Logger
	recorder Recorder

	mu          sync.Mutex
	assistantID string
}

func NewRunner(config *Config, client AssistantClient, log Logger, recorder Recorder) *Runner {
	if config == nil {
		config = LoadConfig()
	}
	return &Runner{
		config:      config,
		client:      client,
		recorder:    recorder,
		assistantID: config.AssistantID,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

// EnsureAssistant returns the configured assistant id, creating the assistant
// on first use.
func (r *Runner) EnsureAssistant(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.assistantID != "" {
		return r.assistantID, nil
	}
	id, err := r.client.CreateAssistant(ctx, models.AssistantSpec{
		Name:         r.config.Name,
		Instructions: r.config.Instructions,
		Model:        r.config.Model,
	})
	if err != nil {
		return "", err
	}
	r.assistantID = id
	r.logger.Info("assistant created", map[string]interface{}{
		"assistantId": id,
		"model":       r.config.Model,
	})
	return id, nil
}

// NewThread creates a fresh assistant thread.
func (r *Runner) NewThread(ctx context.Context) (string, error) {
	return r.client.CreateThread(ctx)
}

// Run posts the outcome's instruction, starts a run and waits for it. A
// failed run yields the fixed failure reply, not an error.
func (r *Runner) Run(ctx context.Context, threadID string, outcome *models.ActionOutcome) (*Reply, error) {
	assistantID, err := r.EnsureAssistant(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.client.CreateMessage(ctx, threadID, outcome.Instruction); err != nil {
		return nil, err
	}
	run, err := r.client.CreateRun(ctx, threadID, assistantID)
	if err != nil {
		return nil, err
	}
	if run.ThreadID == "" {
		run.ThreadID = threadID
	}

	log := r.logger.With(map[string]interface{}{
		"threadId": threadID,
		"runId":    run.ID,
	})
	started := time.Now()

	final, polls, err := r.await(ctx, run)
	if err != nil {
		r.observeDuration("error", started)
		log.Error("run did not complete", map[string]interface{}{
			"polls": polls,
			"error": err.Error(),
		})
		return nil, err
	}
	r.observeDuration(string(final.Status), started)

	reply := &Reply{
		Recipes: outcome.AttachedRecipes(),
		RunID:   run.ID,
		Status:  final.Status,
		Polls:   polls,
	}

	if final.Status == models.RunFailed {
		log.Warn("run failed", map[string]interface{}{"polls": polls})
		reply.Text = r.config.FailedRunReply
		return reply, nil
	}

	text, found, err := r.lastReply(ctx, threadID, run.ID)
	if err != nil {
		return nil, err
	}
	if !found {
		log.Warn("completed run has no assistant message", nil)
	}
	reply.Text = text

	log.Info("run completed", map[string]interface{}{
		"polls":    polls,
		"duration": time.Since(started).String(),
	})
	return reply, nil
}

// await polls run until it is terminal, enforcing the transition table, the
// attempt cap and the overall timeout. The returned run carries the
// normalized status.
func (r *Runner) await(ctx context.Context, run models.AssistantRun) (models.AssistantRun, int, error) {
	if r.config.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.RunTimeout)
		defer cancel()
	}

	limit := rate.Inf
	if r.config.PollInterval > 0 {
		limit = rate.Every(r.config.PollInterval)
	}
	limiter := rate.NewLimiter(limit, 1)

	// The status returned at creation is not trusted; a new run starts Queued
	// and is always fetched at least once.
	current := models.RunQueued
	run.Status = current
	polls := 0
	for {
		if r.config.MaxPollAttempts > 0 && polls >= r.config.MaxPollAttempts {
			return run, polls, apperrors.NewRunPollExhaustedError(run.ID, polls,
				fmt.Errorf("%w: still %s after %d polls", ErrRunPollExhausted, current, polls))
		}
		if err := limiter.Wait(ctx); err != nil {
			return run, polls, r.timeout(run.ID, polls, err)
		}

		next, err := r.client.GetRun(ctx, run.ThreadID, run.ID)
		if err != nil {
			if ctx.Err() != nil {
				return run, polls, r.timeout(run.ID, polls, err)
			}
			return run, polls, err
		}
		polls++

		status := normalizeStatus(next.Status)
		if r.recorder != nil {
			r.recorder.RecordPoll(string(status))
		}
		if status != next.Status {
			r.logger.Warn("unexpected run status treated as failed", map[string]interface{}{
				"runId":  run.ID,
				"status": string(next.Status),
			})
		}
		if !transitions[current][status] {
			return run, polls, apperrors.NewRunIllegalTransitionError(run.ID, string(current), string(status),
				fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, current, status))
		}
		current = status
		run.Status = status
		if current.IsTerminal() {
			return run, polls, nil
		}
	}
}

func (r *Runner) timeout(runID string, polls int, cause error) error {
	return apperrors.NewRunTimeoutError(runID,
		fmt.Errorf("%w: after %d polls: %w", ErrRunTimeout, polls, cause))
}

// lastReply returns the newest assistant message produced by runID.
func (r *Runner) lastReply(ctx context.Context, threadID, runID string) (string, bool, error) {
	messages, err := r.client.ListMessages(ctx, threadID)
	if err != nil {
		return "", false, err
	}
	text, found := "", false
	for _, m := range messages {
		if m.Role == "assistant" && m.RunID == runID {
			text, found = m.Text, true
		}
	}
	return text, found, nil
}

func (r *Runner) observeDuration(outcome string, started time.Time) {
	if r.recorder != nil {
		r.recorder.RecordRunDuration(outcome, time.Since(started))
	}
}
