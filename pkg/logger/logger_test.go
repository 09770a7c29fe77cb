package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"loud":    slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNew_JSONCarriesService(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "info", Format: FormatJSON, Output: &buf, Service: "civic-site"})

	log.Debug("hidden")
	log.Info("project created", ProjectID("p-1"), Err(errors.New("boom")))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1, "debug is below the configured level")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "project created", entry["msg"])
	assert.Equal(t, "civic-site", entry["service"])
	assert.Equal(t, "p-1", entry["project_id"])
	assert.Equal(t, "boom", entry["error"])
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	New(Options{Format: "TEXT", Output: &buf}).Info("hello", Job("refresh_listings"))

	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "job=refresh_listings")
}

func TestContextPropagation(t *testing.T) {
	log := Discard()
	ctx := WithContext(context.Background(), log)

	assert.Same(t, log, FromContext(ctx))
	assert.Same(t, slog.Default(), FromContext(context.Background()))
	assert.Same(t, slog.Default(), OrDefault(nil))
	assert.Same(t, log, OrDefault(log))
}

func TestErr_Nil(t *testing.T) {
	assert.Equal(t, "", Err(nil).Value.String())
}
