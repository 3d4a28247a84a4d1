package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureLogger struct {
	msgs   []string
	fields []map[string]interface{}
}

func (c *captureLogger) Error(msg string, fields map[string]interface{}) {
	c.msgs = append(c.msgs, msg)
	c.fields = append(c.fields, fields)
}

type captureRecorder struct {
	codes []string
}

func (c *captureRecorder) RecordTurnError(code string) {
	c.codes = append(c.codes, code)
}

func TestGetErrorCategory(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected string
	}{
		{ErrCodeRecipeQueryFailed, CategoryTransport},
		{ErrCodeCatalogLookupFailed, CategoryTransport},
		{ErrCodeCartUpdateFailed, CategoryTransport},
		{ErrCodeCartReadFailed, CategoryTransport},
		{ErrCodeAssistantRequestFailed, CategoryTransport},
		{ErrCodeRunTimeout, CategoryRun},
		{ErrCodeRunPollExhausted, CategoryRun},
		{ErrCodeRunIllegalTransition, CategoryRun},
		{ErrCodeSessionNotReady, CategorySession},
		{ErrCodeInternal, CategoryOther},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, GetErrorCategory(tt.code))
		})
	}
}

func TestStandardError_Unwrap(t *testing.T) {
	sentinel := stderrors.New("RUN_TIMEOUT")
	err := NewRunTimeoutError("run_1", fmt.Errorf("%w: after 3 polls", sentinel))

	assert.True(t, stderrors.Is(err, sentinel))
	assert.Equal(t, ErrCodeRunTimeout, CodeOf(err))
	assert.Equal(t, "run_1", err.Metadata["runId"])
	assert.Contains(t, err.Error(), "RUN_TIMEOUT")

	wrapped := fmt.Errorf("dispatch: %w", NewCartReadFailedError(stderrors.New("conn refused")))
	assert.Equal(t, ErrCodeCartReadFailed, CodeOf(wrapped))
}

func TestNormalize(t *testing.T) {
	se := Normalize(context.DeadlineExceeded)
	assert.Equal(t, ErrCodeRunTimeout, se.Code)

	se = Normalize(stderrors.New("boom"))
	assert.Equal(t, ErrCodeInternal, se.Code)
	assert.Equal(t, "boom", se.Details)
	assert.Equal(t, CategoryOther, se.Category)

	orig := NewSessionNotReadyError("s-1")
	assert.Same(t, orig, Normalize(orig))
}

func TestErrorHandler_HandleTurnError(t *testing.T) {
	log := &captureLogger{}
	rec := &captureRecorder{}
	h := NewErrorHandler(log, rec)

	text := h.HandleTurnError(context.Background(), "s-1",
		NewAssistantRequestFailedError("runs.create", stderrors.New("502")))

	assert.Equal(t, ApologyText, text)
	require.Len(t, log.msgs, 1)
	assert.Equal(t, "ASSISTANT_REQUEST_FAILED", log.fields[0]["errorCode"])
	assert.Equal(t, "runs.create", log.fields[0]["endpoint"])
	assert.Equal(t, []string{"ASSISTANT_REQUEST_FAILED"}, rec.codes)
}

func TestErrorHandler_NilRecorder(t *testing.T) {
	h := NewErrorHandler(&captureLogger{}, nil)
	assert.Equal(t, ApologyText, h.HandleTurnError(context.Background(), "s-1", stderrors.New("x")))
}

func TestIsTransportFailure(t *testing.T) {
	assert.False(t, IsTransportFailure(nil))
	assert.True(t, IsTransportFailure(stderrors.New("x")))
}
