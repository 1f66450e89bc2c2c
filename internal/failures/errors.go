package failures

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSourceUnavailable = errors.New("frame source unavailable")
	ErrCaptureMiss       = errors.New("capture miss")
	ErrPartialSession    = errors.New("partial session")
	ErrRender            = errors.New("render failure")
	ErrPersistence       = errors.New("persistence failure")
	ErrValidation        = errors.New("validation error")
	ErrConfiguration     = errors.New("configuration error")
	ErrNotFound          = errors.New("not found")
	ErrSequenceActive    = errors.New("capture sequence already active")
	ErrAborted           = errors.New("capture sequence aborted")
)

var markers = []struct {
	err  error
	kind string
}{
	{ErrSourceUnavailable, "source_unavailable"},
	{ErrCaptureMiss, "capture_miss"},
	{ErrPartialSession, "partial_session"},
	{ErrRender, "render"},
	{ErrPersistence, "persistence"},
	{ErrValidation, "validation"},
	{ErrConfiguration, "configuration"},
	{ErrNotFound, "not_found"},
	{ErrSequenceActive, "sequence_active"},
	{ErrAborted, "aborted"},
}

// Wrap builds an error message that includes component context while tagging
// it with the provided marker. The marker should be one of the exported
// sentinel errors above; nil falls back to ErrRender.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrRender
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ErrorDetails is the presentation form of a tagged error.
type ErrorDetails struct {
	Kind    string
	Message string
	Marker  error
}

// Details classifies err against the known markers. Unknown errors report
// kind "internal" and their full message.
func Details(err error) ErrorDetails {
	if err == nil {
		return ErrorDetails{}
	}
	msg := strings.TrimSpace(err.Error())
	for _, m := range markers {
		if errors.Is(err, m.err) {
			prefix := m.err.Error() + ": "
			return ErrorDetails{
				Kind:    m.kind,
				Message: strings.TrimPrefix(msg, prefix),
				Marker:  m.err,
			}
		}
	}
	return ErrorDetails{Kind: "internal", Message: msg}
}

// Retryable reports whether the caller may simply try the operation again
// without changing inputs.
func Retryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrRender), errors.Is(err, ErrPersistence), errors.Is(err, ErrCaptureMiss),
		errors.Is(err, ErrSequenceActive):
		return true
	default:
		return false
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
