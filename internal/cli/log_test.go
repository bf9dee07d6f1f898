package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/chainlens/chainlens/pkg/observability"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	if logger == nil {
		t.Fatal("newLogger() returned nil")
	}

	// Test that it can log
	logger.Info("test message")

	if buf.Len() == 0 {
		t.Error("logger should have written output")
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "info at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("test") },
			wantLog: true,
		},
		{
			name:    "debug at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: false,
		},
		{
			name:    "debug at debug level",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			gotLog := buf.Len() > 0
			if gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	prog := newProgress(logger)
	if prog == nil {
		t.Fatal("newProgress() returned nil")
	}

	// Small delay to ensure measurable duration
	time.Sleep(10 * time.Millisecond)

	prog.done("test completed")

	output := buf.String()
	if output == "" {
		t.Error("progress.done() should produce output")
	}

	// Should contain the message
	if !bytes.Contains(buf.Bytes(), []byte("test completed")) {
		t.Error("progress.done() output should contain message")
	}
}

func TestLogHooks(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		level log.Level
		fire  func(h *logHooks)
		want  string
	}{
		{
			name:  "LayoutCompleteAtDebug",
			level: log.DebugLevel,
			fire: func(h *logHooks) {
				h.OnLayoutComplete(ctx, observability.LayoutStats{Nodes: 4, Placed: 3, Converged: true}, time.Millisecond, nil)
			},
			want: "layout finished",
		},
		{
			name:  "LayoutCompleteHiddenAtInfo",
			level: log.InfoLevel,
			fire: func(h *logHooks) {
				h.OnLayoutComplete(ctx, observability.LayoutStats{Nodes: 4}, time.Millisecond, nil)
			},
		},
		{
			name:  "RenderFailureShownAtInfo",
			level: log.InfoLevel,
			fire: func(h *logHooks) {
				h.OnRenderComplete(ctx, []string{"png"}, time.Millisecond, errors.New("rsvg-convert not found"))
			},
			want: "render failed",
		},
		{
			name:  "CacheHit",
			level: log.DebugLevel,
			fire:  func(h *logHooks) { h.OnCacheHit(ctx, "layout:abc") },
			want:  "layout:abc",
		},
		{
			name:  "StorePutFailure",
			level: log.InfoLevel,
			fire: func(h *logHooks) {
				h.OnStorePut(ctx, "7f0c", time.Millisecond, errors.New("disk full"))
			},
			want: "disk full",
		},
		{
			name:  "Response",
			level: log.InfoLevel,
			fire: func(h *logHooks) {
				h.OnResponse(ctx, "POST", "/v1/layout", 200, time.Millisecond)
			},
			want: "/v1/layout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.fire(&logHooks{logger: newLogger(&buf, tt.level)})

			got := buf.String()
			if tt.want == "" {
				if got != "" {
					t.Errorf("unexpected output: %q", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("output %q does not contain %q", got, tt.want)
			}
		})
	}
}

func TestInstallHooks(t *testing.T) {
	t.Cleanup(observability.Reset)

	var buf bytes.Buffer
	installHooks(newLogger(&buf, log.DebugLevel))
	observability.Cache().OnCacheMiss(context.Background(), "artifact:xyz")

	if !strings.Contains(buf.String(), "artifact:xyz") {
		t.Errorf("installed hooks did not log: %q", buf.String())
	}
}
