package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrRender        = errors.New("render error")
	ErrExternalTool  = errors.New("external tool error")
	ErrIO            = errors.New("io error")
	ErrConfiguration = errors.New("configuration error")
)

// Category names the failure class of a job error for user-facing messages.
type Category string

const (
	CategoryValidation    Category = "validation"
	CategoryRender        Category = "render"
	CategoryTool          Category = "tool"
	CategoryIO            Category = "io"
	CategoryConfiguration Category = "configuration"
	CategoryUnknown       Category = "unknown"
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrRender
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Categorize maps a pipeline error onto the failure taxonomy. Validation is
// checked first so a rejected job is never reported as a render failure.
func Categorize(err error) Category {
	switch {
	case err == nil:
		return CategoryUnknown
	case errors.Is(err, ErrValidation):
		return CategoryValidation
	case errors.Is(err, ErrConfiguration):
		return CategoryConfiguration
	case errors.Is(err, ErrExternalTool):
		return CategoryTool
	case errors.Is(err, ErrIO):
		return CategoryIO
	case errors.Is(err, ErrRender):
		return CategoryRender
	default:
		return CategoryUnknown
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "job failure"
	}
	return strings.Join(parts, ": ")
}

// MarkerFor returns the sentinel error for a category, used to rebuild an
// error that crossed a process boundary as text.
func MarkerFor(category Category) error {
	switch category {
	case CategoryValidation:
		return ErrValidation
	case CategoryConfiguration:
		return ErrConfiguration
	case CategoryTool:
		return ErrExternalTool
	case CategoryIO:
		return ErrIO
	default:
		return ErrRender
	}
}
