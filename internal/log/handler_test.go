package log_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	ctxlog "github.com/ErlanBelekov/cronjob-sdk/internal/log"
	"github.com/ErlanBelekov/cronjob-sdk/internal/requestid"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	return rec
}

func TestContextHandler_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := ctxlog.New(&buf, "production", slog.LevelInfo)

	ctx := requestid.WithRequestID(context.Background(), "abc-123")
	logger.InfoContext(ctx, "hello")

	if got := decodeLine(t, &buf)["request_id"]; got != "abc-123" {
		t.Errorf("request_id = %v, want abc-123", got)
	}
}

func TestContextHandler_NoRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := ctxlog.New(&buf, "production", slog.LevelInfo)

	logger.InfoContext(context.Background(), "hello")

	if _, ok := decodeLine(t, &buf)["request_id"]; ok {
		t.Error("request_id must be absent without one in context")
	}
}

func TestContextHandler_KeepsAttrsAcrossWith(t *testing.T) {
	var buf bytes.Buffer
	logger := ctxlog.New(&buf, "staging", slog.LevelInfo).With("component", "test")

	ctx := requestid.WithRequestID(context.Background(), "r1")
	logger.InfoContext(ctx, "hello")

	rec := decodeLine(t, &buf)
	if rec["component"] != "test" || rec["request_id"] != "r1" {
		t.Errorf("record = %v", rec)
	}
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := ctxlog.New(&buf, "production", slog.LevelWarn)

	logger.Info("dropped")

	if buf.Len() != 0 {
		t.Errorf("info record written at warn level: %s", buf.String())
	}
}
