// Package diagnostics wraps errors with user-facing suggestions, adapted
// from NoiseFS's pkg/util error-with-suggestion helper. It is stdlib-only:
// the pattern is a handful of string matches and a formatting function, too
// small to justify pulling in a dedicated error-handling dependency.
package diagnostics

import (
	"errors"
	"fmt"
	"strings"

	"github.com/TheEntropyCollective/taskprocessor/taskprocessor"
)

// WithSuggestion wraps an error with a suggestion for how a user might
// resolve it.
type WithSuggestion struct {
	Err        error
	Suggestion string
}

func (e *WithSuggestion) Error() string {
	return fmt.Sprintf("%v\nsuggestion: %s", e.Err, e.Suggestion)
}

func (e *WithSuggestion) Unwrap() error { return e.Err }

// Wrap attaches suggestion to err. It returns nil if err is nil.
func Wrap(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &WithSuggestion{Err: err, Suggestion: suggestion}
}

// Suggest returns a suggestion for a known taskprocessor error, or "" if
// none applies.
func Suggest(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, taskprocessor.ErrNameInUse):
		return "pick a different processor name, or call Get instead of CreateWithListener to reuse the existing one"
	case errors.Is(err, taskprocessor.ErrNotFound):
		return "the processor hasn't been created yet; drop RefIfExists() if you want Get to create it"
	case errors.Is(err, taskprocessor.ErrNotAlive):
		return "the processor has already been shut down; create a new one instead of reusing this handle"
	case errors.Is(err, taskprocessor.ErrInvalidName):
		return "processor names must be non-empty"
	case errors.Is(err, taskprocessor.ErrListenerInit):
		return "the listener's Alloc callback failed; check its wrapped error for the underlying cause"
	case strings.Contains(err.Error(), "context deadline exceeded"):
		return "the operation took too long; consider a longer timeout or a shorter-running handler"
	default:
		return ""
	}
}

// Format renders err for display to a user, appending an automatic
// suggestion when one is known and err doesn't already carry one.
func Format(err error) string {
	if err == nil {
		return ""
	}
	var ws *WithSuggestion
	if errors.As(err, &ws) {
		return err.Error()
	}
	if s := Suggest(err); s != "" {
		return fmt.Sprintf("error: %v\nsuggestion: %s", err, s)
	}
	return fmt.Sprintf("error: %v", err)
}
