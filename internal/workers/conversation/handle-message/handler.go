// internal/workers/conversation/handle-message/handler.go
package handlemessage

import (
	"context"
	"strings"
	"time"

	apperrors "lucy-chat/internal/common/errors"
	"lucy-chat/internal/models"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	TaskType = "handle-message"
)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// Handler runs one submitted message through classification, dispatch and the
// assistant run, and appends the resulting turns to the session.
type Handler struct {
	config   *Config
	deps     Dependencies
	logger   Logger
	tracer   trace.Tracer
	recorder MessageRecorder
}

func NewHandler(config *Config, deps Dependencies, log Logger, tracer trace.Tracer, recorder MessageRecorder) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	if tracer == nil {
		tracer = otel.Tracer("lucy-chat")
	}
	return &Handler{
		config:   config,
		deps:     deps,
		tracer:   tracer,
		recorder: recorder,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

// OpenSession creates a session holding the greeting turn and binds it to a
// fresh assistant thread. The session is returned even when the bootstrap
// fails; it then ignores submissions.
func (h *Handler) OpenSession(ctx context.Context) (*models.ConversationSession, error) {
	sess := models.NewConversationSession(uuid.New().String())
	sess.AppendAssistantTurn(h.config.Greeting, nil)

	log := h.logger.With(map[string]interface{}{"sessionId": sess.ID})

	if _, err := h.deps.Runner.EnsureAssistant(ctx); err != nil {
		log.Error("assistant bootstrap failed", map[string]interface{}{"error": err.Error()})
		return sess, err
	}
	threadID, err := h.deps.Runner.NewThread(ctx)
	if err != nil {
		log.Error("thread creation failed", map[string]interface{}{"error": err.Error()})
		return sess, err
	}
	sess.SetThread(threadID)

	log.Info("session opened", map[string]interface{}{"threadId": threadID})
	return sess, nil
}

// Handle submits text on behalf of the user. It returns false when the input
// was ignored: blank text, a session without a thread, or a submission
// already in flight. Otherwise exactly one user turn and one assistant turn
// are appended.
func (h *Handler) Handle(ctx context.Context, sess *models.ConversationSession, text string) bool {
	log := h.logger.With(map[string]interface{}{"sessionId": sess.ID})

	if strings.TrimSpace(text) == "" {
		return false
	}
	if sess.Thread() == "" {
		log.Warn("message ignored", map[string]interface{}{
			"error": apperrors.NewSessionNotReadyError(sess.ID).Error(),
		})
		return false
	}
	if !sess.TryBeginSend() {
		log.Warn("message ignored while sending", nil)
		return false
	}
	defer sess.EndSend()

	sess.AppendUserTurn(text)

	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	ctx, span := h.tracer.Start(ctx, "handle-message", trace.WithAttributes(
		attribute.String("session.id", sess.ID),
	))
	defer span.End()

	started := time.Now()
	status := "success"

	reply, recipes, err := h.process(ctx, sess.Thread(), text)
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, string(apperrors.CodeOf(err)))
		reply, recipes = h.deps.Errors.HandleTurnError(ctx, sess.ID, err), nil
	}
	sess.AppendAssistantTurn(reply, recipes)

	if h.recorder != nil {
		h.recorder.RecordMessageProcessed(ctx, status)
		h.recorder.RecordMessageDuration(ctx, time.Since(started), status)
	}
	log.Info("message handled", map[string]interface{}{
		"status":   status,
		"duration": time.Since(started).String(),
		"turns":    sess.Len(),
	})
	return true
}

func (h *Handler) process(ctx context.Context, threadID, text string) (string, []models.Recipe, error) {
	known, err := h.deps.Recipes.All(ctx)
	if err != nil {
		return "", nil, err
	}
	cart, err := h.deps.Cart.Lines(ctx)
	if err != nil {
		return "", nil, err
	}

	intent := h.deps.Classifier.Classify(text, known)
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("intent", string(intent.Kind())))

	dctx, dspan := h.tracer.Start(ctx, "dispatch-action")
	outcome, err := h.deps.Dispatcher.Dispatch(dctx, intent, cart)
	endSpan(dspan, err)
	if err != nil {
		return "", nil, err
	}

	rctx, rspan := h.tracer.Start(ctx, "assistant-run")
	reply, err := h.deps.Runner.Run(rctx, threadID, outcome)
	if reply != nil {
		rspan.SetAttributes(
			attribute.String("run.id", reply.RunID),
			attribute.Int("run.polls", reply.Polls),
		)
	}
	endSpan(rspan, err)
	if err != nil {
		return "", nil, err
	}
	return reply.Text, reply.Recipes, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
