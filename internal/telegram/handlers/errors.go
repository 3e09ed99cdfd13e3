package handlers

import (
	"context"
	"errors"

	"github.com/futig/remedy-companion/internal/entity"
	"github.com/futig/remedy-companion/internal/telegram/render"
	"github.com/futig/remedy-companion/internal/telegram/state"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity int

const (
	SeverityWarning ErrorSeverity = iota
	SeverityError
)

// String returns string representation of error severity
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// HandlerError represents a structured error with user message and logging info
type HandlerError struct {
	Err         error
	UserMessage string
	LogMessage  string
	Severity    ErrorSeverity
}

// classifyHandlerError analyzes an error and returns a HandlerError with appropriate severity and messages
func classifyHandlerError(err error) *HandlerError {
	if err == nil {
		return &HandlerError{
			UserMessage: render.ErrGeneric,
			LogMessage:  "unknown error",
			Severity:    SeverityWarning,
		}
	}

	herr := &HandlerError{
		Err:         err,
		UserMessage: render.ClassifyError(err),
		LogMessage:  "handler error",
		Severity:    SeverityError,
	}

	switch {
	case errors.Is(err, entity.ErrSessionNotFound), errors.Is(err, state.ErrNoChat):
		herr.UserMessage = render.ErrSessionNotFound
		herr.LogMessage = "session not found"
		herr.Severity = SeverityWarning
	case errors.Is(err, entity.ErrInvalidTransition),
		errors.Is(err, entity.ErrWalkthroughNotActive),
		errors.Is(err, entity.ErrWalkthroughFinished),
		errors.Is(err, entity.ErrExitNotRequested),
		errors.Is(err, entity.ErrNoRecipe):
		herr.LogMessage = "action not available in current screen"
		herr.Severity = SeverityWarning
	case errors.Is(err, entity.ErrSavingDisabled):
		herr.LogMessage = "saving disabled"
		herr.Severity = SeverityWarning
	case errors.Is(err, context.DeadlineExceeded):
		herr.LogMessage = "operation timed out"
	}

	return herr
}

// HandleError provides centralized error handling for all handlers
// It logs the error with appropriate severity and sends a user-friendly message
func (h *BaseHandler) HandleError(ctx context.Context, chatID int64, err error) {
	if err == nil {
		return
	}

	handlerErr := classifyHandlerError(err)

	switch handlerErr.Severity {
	case SeverityError:
		ctxzap.Error(ctx, handlerErr.LogMessage,
			zap.Error(handlerErr.Err),
			zap.Int64("chat_id", chatID),
		)
	case SeverityWarning:
		ctxzap.Warn(ctx, handlerErr.LogMessage,
			zap.Error(handlerErr.Err),
			zap.Int64("chat_id", chatID),
		)
	}

	h.sendMessage(chatID, handlerErr.UserMessage, nil)
}
