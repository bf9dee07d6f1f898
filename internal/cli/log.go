package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/chainlens/chainlens/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Wrote 2 files (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// =============================================================================
// Observability Hooks
// =============================================================================

// logHooks writes observability events as debug lines. Failures are logged
// at warn level so they show without --verbose.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.PipelineHooks = (*logHooks)(nil)
	_ observability.CacheHooks    = (*logHooks)(nil)
	_ observability.StoreHooks    = (*logHooks)(nil)
	_ observability.HTTPHooks     = (*logHooks)(nil)
)

func (h *logHooks) OnLayoutStart(_ context.Context, nodes, edges int) {
	h.logger.Debug("layout started", "nodes", nodes, "edges", edges)
}

func (h *logHooks) OnLayoutComplete(_ context.Context, stats observability.LayoutStats, dur time.Duration, err error) {
	if err != nil {
		h.logger.Warn("layout failed", "error", err, "duration", dur)
		return
	}
	h.logger.Debug("layout finished",
		"nodes", stats.Nodes, "placed", stats.Placed,
		"iterations", stats.Iterations, "converged", stats.Converged, "duration", dur)
}

func (h *logHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render started", "formats", formats)
}

func (h *logHooks) OnRenderComplete(_ context.Context, formats []string, dur time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "formats", formats, "error", err)
		return
	}
	h.logger.Debug("render finished", "formats", formats, "duration", dur)
}

func (h *logHooks) OnCacheHit(_ context.Context, key string) {
	h.logger.Debug("cache hit", "key", key)
}

func (h *logHooks) OnCacheMiss(_ context.Context, key string) {
	h.logger.Debug("cache miss", "key", key)
}

func (h *logHooks) OnCacheSet(_ context.Context, key string, size int) {
	h.logger.Debug("cache set", "key", key, "bytes", size)
}

func (h *logHooks) OnStoreGet(_ context.Context, id string, dur time.Duration, err error) {
	h.logger.Debug("store get", "id", id, "duration", dur, "error", err)
}

func (h *logHooks) OnStorePut(_ context.Context, id string, dur time.Duration, err error) {
	if err != nil {
		h.logger.Warn("store put failed", "id", id, "error", err)
		return
	}
	h.logger.Debug("store put", "id", id, "duration", dur)
}

func (h *logHooks) OnRequest(_ context.Context, method, path string) {}

func (h *logHooks) OnResponse(_ context.Context, method, path string, status int, dur time.Duration) {
	h.logger.Info("request", "method", method, "route", path, "status", status, "duration", dur)
}
