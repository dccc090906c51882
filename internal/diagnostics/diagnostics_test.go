package diagnostics_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TheEntropyCollective/taskprocessor/internal/diagnostics"
	"github.com/TheEntropyCollective/taskprocessor/taskprocessor"
)

func TestWrapNilIsNil(t *testing.T) {
	assert.NoError(t, diagnostics.Wrap(nil, "unused"))
}

func TestWrapUnwraps(t *testing.T) {
	base := errors.New("boom")
	wrapped := diagnostics.Wrap(base, "try again")
	assert.True(t, errors.Is(wrapped, base))
	assert.Contains(t, wrapped.Error(), "try again")
}

func TestSuggestKnownErrors(t *testing.T) {
	assert.NotEmpty(t, diagnostics.Suggest(taskprocessor.ErrNameInUse))
	assert.NotEmpty(t, diagnostics.Suggest(taskprocessor.ErrNotFound))
	assert.NotEmpty(t, diagnostics.Suggest(taskprocessor.ErrNotAlive))
	assert.Empty(t, diagnostics.Suggest(nil))
	assert.Empty(t, diagnostics.Suggest(errors.New("unrelated")))
}

func TestFormatAddsSuggestionOnce(t *testing.T) {
	formatted := diagnostics.Format(taskprocessor.ErrNameInUse)
	assert.True(t, strings.Contains(formatted, "suggestion:"))

	already := diagnostics.Wrap(errors.New("boom"), "manual suggestion")
	formatted = diagnostics.Format(already)
	assert.Equal(t, 1, strings.Count(formatted, "suggestion:"))
}
