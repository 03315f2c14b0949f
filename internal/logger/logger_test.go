package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLevel(t *testing.T) {
	buf := new(bytes.Buffer)
	l := build(Options{Level: "warn", Output: buf})

	l.Info().Msg("dropped")
	l.Warn().Msg("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestBuildInvalidLevelDefaultsToInfo(t *testing.T) {
	l := build(Options{Level: "loud", Output: new(bytes.Buffer)})
	assert.Equal(t, zerolog.InfoLevel, l.GetLevel())
}

func TestContextLogger(t *testing.T) {
	buf := new(bytes.Buffer)
	base := build(Options{Level: "debug", Output: buf})
	ctx := base.WithContext(context.Background())
	ctx = WithLogger(ctx, map[string]interface{}{"request_id": "abc"})

	ErrorLog(ctx, "save employee %d", errors.New("boom"), 42)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "abc", line["request_id"])
	assert.Equal(t, "boom", line["error"])
	assert.Equal(t, "save employee 42", line["message"])
	assert.Equal(t, "error", line["level"])
}
