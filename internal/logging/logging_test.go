package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level        string
		debugEnabled bool
		infoEnabled  bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"warn", false, false},
		{"error", false, false},
		{"", false, true},
		{"bogus", false, true},
	}

	for _, tc := range tests {
		t.Run("level_"+tc.level, func(t *testing.T) {
			logger := New(tc.level, "text")
			if logger == nil {
				t.Fatal("expected non-nil logger")
			}
			ctx := context.Background()
			if got := logger.Enabled(ctx, slog.LevelDebug); got != tc.debugEnabled {
				t.Errorf("debug enabled = %v, want %v", got, tc.debugEnabled)
			}
			if got := logger.Enabled(ctx, slog.LevelInfo); got != tc.infoEnabled {
				t.Errorf("info enabled = %v, want %v", got, tc.infoEnabled)
			}
		})
	}
}

func TestNew_JSONFormat(t *testing.T) {
	if New("info", "json") == nil {
		t.Fatal("expected non-nil JSON logger")
	}
}

func TestRequestID_RoundTrip(t *testing.T) {
	ctx := context.Background()
	if id := RequestID(ctx); id != "" {
		t.Errorf("expected empty request ID on fresh context, got %q", id)
	}

	ctx = WithRequestID(ctx, "req_abc123")
	if id := RequestID(ctx); id != "req_abc123" {
		t.Errorf("RequestID = %q, want req_abc123", id)
	}

	ctx = WithRequestID(ctx, "req_def456")
	if id := RequestID(ctx); id != "req_def456" {
		t.Errorf("later WithRequestID should win, got %q", id)
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected fallback logger for bare context")
	}

	custom := New("debug", "json")
	ctx := WithLogger(context.Background(), custom)
	if got := FromContext(ctx); got != custom {
		t.Error("expected the stored logger back")
	}
}

func TestL(t *testing.T) {
	ctx := WithLogger(context.Background(), New("info", "text"))
	if L(ctx) == nil {
		t.Fatal("expected non-nil logger without a request ID")
	}

	ctx = WithRequestID(ctx, "req_789")
	if L(ctx) == nil {
		t.Fatal("expected non-nil logger with a request ID")
	}
}
