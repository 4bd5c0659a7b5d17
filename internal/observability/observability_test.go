package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerFromContext_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(&buf, "json", "info")

	ctx := WithRequestID(context.Background(), "req-42")
	LoggerFromContext(ctx, base).Info("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-42", line["request_id"])
	assert.Equal(t, "hello", line["msg"])
}

func TestLoggerFromContext_NoRequestID(t *testing.T) {
	base := Discard()
	assert.Same(t, base, LoggerFromContext(context.Background(), base))
	assert.Empty(t, RequestID(context.Background()))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestNewLogger_TextFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "text", "warn")

	logger.Info("skipped")
	logger.Warn("kept")

	assert.NotContains(t, buf.String(), "skipped")
	assert.Contains(t, buf.String(), "msg=kept")
}

func TestLogUseCaseObserver(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(NewLogger(&buf, "json", "info"))

	ctx := WithRequestID(context.Background(), "r1")
	obs.ObserveUseCase(ctx, UseCaseEvent{
		Name:     "chat.send_message",
		Duration: 12 * time.Millisecond,
		Success:  false,
		Err:      errors.New("boom"),
		Fields:   map[string]any{"label": "NEGATIVE"},
	})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "ERROR", line["level"])
	assert.Equal(t, "chat.send_message", line["use_case"])
	assert.Equal(t, "boom", line["error"])
	assert.Equal(t, "NEGATIVE", line["label"])
	assert.Equal(t, "r1", line["request_id"])
}

func TestObserverOrNoop(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, ObserverOrNoop())
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
}
