package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/usestring/formpilot-mcp/pkg/answers"
	"github.com/usestring/formpilot-mcp/pkg/decode"
	"github.com/usestring/formpilot-mcp/pkg/loader"
	"github.com/usestring/formpilot-mcp/pkg/pipeline"
)

// Error codes for MCP tool responses.
const (
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeTimeout       = "TIMEOUT"
	ErrCodeAnswerService = "ANSWER_SERVICE_ERROR"
	ErrCodeNoQuestions   = "NO_QUESTIONS"
	ErrCodeFetch         = "FETCH_ERROR"
)

// CodedError is an error with an associated error code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// WrapError converts a loader, decoder, pipeline or answer service error to
// a coded error. Coded errors pass through unchanged.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var coded *CodedError
	if errors.As(err, &coded) {
		return coded
	}

	var (
		apiErr   *answers.APIError
		fetchErr *loader.FetchError
		netErr   net.Error
	)
	switch {
	case errors.Is(err, decode.ErrNoQuestions):
		coded = &CodedError{Code: ErrCodeNoQuestions, Message: "no questions found on the page", Cause: err}
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		coded = &CodedError{Code: ErrCodeTimeout, Message: "request timed out", Cause: err}
	case errors.As(err, &apiErr):
		coded = &CodedError{Code: ErrCodeAnswerService, Message: apiErr.Message, Cause: err}
	case errors.Is(err, pipeline.ErrAnswerService), errors.Is(err, answers.ErrInvalidResponse):
		coded = &CodedError{Code: ErrCodeAnswerService, Message: "answer generation failed", Cause: err}
	case errors.As(err, &fetchErr) && fetchErr.StatusCode == http.StatusNotFound:
		coded = &CodedError{Code: ErrCodeNotFound, Message: "form page not found: " + fetchErr.URL, Cause: err}
	default:
		coded = &CodedError{Code: ErrCodeFetch, Message: err.Error(), Cause: err}
	}

	slog.Warn("tool error",
		slog.String("code", coded.Code),
		slog.String("message", coded.Message),
	)

	return coded
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string) error {
	return &CodedError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}
