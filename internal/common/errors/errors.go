// Package errors provides standardized error handling for the chat pipeline.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeRecipeQueryFailed      ErrorCode = "RECIPE_QUERY_FAILED"
	ErrCodeCatalogLookupFailed    ErrorCode = "CATALOG_LOOKUP_FAILED"
	ErrCodeCartUpdateFailed       ErrorCode = "CART_UPDATE_FAILED"
	ErrCodeCartReadFailed         ErrorCode = "CART_READ_FAILED"
	ErrCodeAssistantRequestFailed ErrorCode = "ASSISTANT_REQUEST_FAILED"

	ErrCodeRunTimeout           ErrorCode = "RUN_TIMEOUT"
	ErrCodeRunPollExhausted     ErrorCode = "RUN_POLL_EXHAUSTED"
	ErrCodeRunIllegalTransition ErrorCode = "RUN_ILLEGAL_TRANSITION"

	ErrCodeSessionNotReady ErrorCode = "SESSION_NOT_READY"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Error categories returned by GetErrorCategory.
const (
	CategoryTransport = "TRANSPORT"
	CategoryRun       = "RUN"
	CategorySession   = "SESSION"
	CategoryOther     = "OTHER"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Category  string                 `json:"category"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata sets one metadata entry and returns the error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// New builds a StandardError for code. cause may be nil.
func New(code ErrorCode, message string, cause error) *StandardError {
	se := &StandardError{
		Code:      code,
		Message:   message,
		Category:  GetErrorCategory(code),
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
	if cause != nil {
		se.Details = cause.Error()
	}
	return se
}

// ==========================
// 2. Error Constructors
// ==========================

func NewRecipeQueryFailedError(mode string, err error) *StandardError {
	return New(ErrCodeRecipeQueryFailed, "Recipe query failed", err).WithMetadata("mode", mode)
}

func NewCatalogLookupFailedError(title string, err error) *StandardError {
	return New(ErrCodeCatalogLookupFailed, "Product catalog lookup failed", err).WithMetadata("title", title)
}

func NewCartUpdateFailedError(op string, err error) *StandardError {
	return New(ErrCodeCartUpdateFailed, "Cart update failed", err).WithMetadata("operation", op)
}

func NewCartReadFailedError(err error) *StandardError {
	return New(ErrCodeCartReadFailed, "Cart read failed", err)
}

func NewAssistantRequestFailedError(endpoint string, err error) *StandardError {
	return New(ErrCodeAssistantRequestFailed, "Assistant API request failed", err).WithMetadata("endpoint", endpoint)
}

func NewRunTimeoutError(runID string, err error) *StandardError {
	return New(ErrCodeRunTimeout, "Assistant run did not finish in time", err).WithMetadata("runId", runID)
}

func NewRunPollExhaustedError(runID string, attempts int, err error) *StandardError {
	return New(ErrCodeRunPollExhausted, "Assistant run poll attempts exhausted", err).
		WithMetadata("runId", runID).
		WithMetadata("attempts", attempts)
}

func NewRunIllegalTransitionError(runID string, from, to string, err error) *StandardError {
	return New(ErrCodeRunIllegalTransition, fmt.Sprintf("Illegal run transition %s -> %s", from, to), err).
		WithMetadata("runId", runID)
}

func NewSessionNotReadyError(sessionID string) *StandardError {
	return New(ErrCodeSessionNotReady, "Session has no assistant thread", nil).
		WithMetadata("sessionId", sessionID)
}

// ==========================
// 3. Utility Functions
// ==========================

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "RUN_"):
		return CategoryRun
	case strings.HasPrefix(codeStr, "SESSION_"):
		return CategorySession
	case strings.HasSuffix(codeStr, "_FAILED"):
		return CategoryTransport
	default:
		return CategoryOther
	}
}

// CodeOf extracts the ErrorCode from err, or ErrCodeInternal.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if stderrors.As(err, &se) {
		return se.Code
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return ErrCodeRunTimeout
	}
	return ErrCodeInternal
}

// IsTransportFailure reports whether err is a failure the orchestrator
// recovers from. Every non-nil error that reaches it qualifies.
func IsTransportFailure(err error) bool {
	return err != nil
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	var se *StandardError
	if stderrors.As(err, &se) {
		return se
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return New(ErrCodeRunTimeout, "Deadline exceeded", err)
	}
	return New(ErrCodeInternal, "Unexpected error", err)
}
