// internal/common/errors/handler.go
package errors

import (
	"context"
)

// ApologyText is the assistant turn appended when a message could not be processed.
const ApologyText = "Sorry, something went wrong."

// ErrorHandler is the single recovery path of a turn: it turns any error into the
// apology text after logging and counting it.
type ErrorHandler struct {
	logger   Logger
	recorder Recorder
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

// Recorder counts turn errors by code.
type Recorder interface {
	RecordTurnError(code string)
}

func NewErrorHandler(logger Logger, recorder Recorder) *ErrorHandler {
	return &ErrorHandler{logger: logger, recorder: recorder}
}

// HandleTurnError normalizes err, logs it and returns the text to show the user.
func (h *ErrorHandler) HandleTurnError(ctx context.Context, sessionID string, err error) string {
	stdErr := Normalize(err)

	fields := map[string]interface{}{
		"sessionId":     sessionID,
		"errorCode":     string(stdErr.Code),
		"errorCategory": stdErr.Category,
		"message":       stdErr.Message,
		"details":       stdErr.Details,
	}
	for k, v := range stdErr.Metadata {
		fields[k] = v
	}
	if ctx.Err() != nil {
		fields["contextError"] = ctx.Err().Error()
	}
	h.logger.Error("turn failed", fields)

	if h.recorder != nil {
		h.recorder.RecordTurnError(string(stdErr.Code))
	}
	return ApologyText
}
