package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "warn")
	ctx := context.Background()

	logger.InfoContext(ctx, "hidden")
	logger.WarnContext(ctx, "shown", "user_id", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "shown", entry["msg"])
	assert.EqualValues(t, 3, entry["user_id"])
}

func TestNewLogger_UnknownLevelIsInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "chatty")

	logger.Debug("dropped")
	logger.Info("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}
