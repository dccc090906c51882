package obslog_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheEntropyCollective/taskprocessor/internal/obslog"
)

func TestNewRejectsInvalidLevel(t *testing.T) {
	_, err := obslog.New(obslog.Config{Level: "deafening"})
	assert.Error(t, err)
}

func TestTextLoggingRespectsLevelAndComponent(t *testing.T) {
	var buf bytes.Buffer
	l, err := obslog.New(obslog.Config{Level: "warn", Output: &buf, Component: "test"})
	require.NoError(t, err)

	l.Info("should not appear")
	assert.Empty(t, buf.String())

	l.Warn("should appear", obslog.Field("count", 3))
	out := buf.String()
	assert.Contains(t, out, "[WARN]")
	assert.Contains(t, out, "should appear")
	assert.Contains(t, out, "component=test")
	assert.Contains(t, out, "count=3")
}

func TestWithComponentLeavesParentUnmodified(t *testing.T) {
	var buf bytes.Buffer
	l, err := obslog.New(obslog.Config{Output: &buf})
	require.NoError(t, err)

	child := l.WithComponent("child")
	child.Info("nested")
	l.Info("parent")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "component=child")
	assert.NotContains(t, lines[1], "component=")
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l, err := obslog.New(obslog.Config{JSON: true, Output: &buf})
	require.NoError(t, err)

	l.Error("boom", obslog.Field("code", 5))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "ERROR", decoded["level"])
	assert.Equal(t, "boom", decoded["message"])
}
