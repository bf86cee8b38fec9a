package gauge

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func watchdogConfig() Config {
	cfg := DefaultConfig()
	cfg.ValueWindow = 3
	cfg.MaxWarn = 8
	cfg.WarnInterval = 600 * time.Second
	return cfg
}

func TestWatchdog_AlertsOnFullWindowBreach(t *testing.T) {
	cfg := watchdogConfig()
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	w := NewWatchdog(&cfg, discardLogger(), now)

	// Window not full yet: no alert even though every reading breaches.
	_, ok := w.ObserveValue(9, "bar", now)
	assert.False(t, ok)
	_, ok = w.ObserveValue(9, "bar", now.Add(time.Second))
	assert.False(t, ok)

	// Third reading fills the window; the alert clock started one interval
	// in the past, so the alert fires immediately.
	msg, ok := w.ObserveValue(9, "bar", now.Add(2*time.Second))
	require.True(t, ok)
	assert.Contains(t, msg, "9 bar")
	assert.Contains(t, msg, "2026-08-23T12:00:02Z")
}

func TestWatchdog_RateLimited(t *testing.T) {
	cfg := watchdogConfig()
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	w := NewWatchdog(&cfg, discardLogger(), now)

	w.ObserveValue(9, "bar", now)
	w.ObserveValue(9, "bar", now)
	_, ok := w.ObserveValue(9, "bar", now)
	require.True(t, ok, "first alert")

	// 10 seconds later the condition still holds but the interval has not
	// elapsed.
	_, ok = w.ObserveValue(9, "bar", now.Add(10*time.Second))
	assert.False(t, ok)

	// After the interval the next breach alerts again.
	_, ok = w.ObserveValue(9, "bar", now.Add(601*time.Second))
	assert.True(t, ok)
}

func TestWatchdog_MedianDecides(t *testing.T) {
	cfg := watchdogConfig()
	now := time.Now()
	w := NewWatchdog(&cfg, discardLogger(), now)

	// One spike among normal readings: median 5 stays in bounds.
	w.ObserveValue(5, "bar", now)
	w.ObserveValue(100, "bar", now)
	_, ok := w.ObserveValue(5, "bar", now)
	assert.False(t, ok, "a single outlier must not alert")
}

func TestWatchdog_DisabledWithoutBounds(t *testing.T) {
	cfg := DefaultConfig() // MinWarn and MaxWarn stay NaN
	cfg.ValueWindow = 1
	now := time.Now()
	w := NewWatchdog(&cfg, discardLogger(), now)

	_, ok := w.ObserveValue(1e9, "degree", now)
	assert.False(t, ok, "NaN bounds never compare true")
}

func TestWatchdog_Silence(t *testing.T) {
	cfg := watchdogConfig()
	cfg.WarnNoDetections = 1800 * time.Second
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	w := NewWatchdog(&cfg, discardLogger(), now)

	_, ok := w.ObserveSilence(now.Add(time.Minute))
	assert.False(t, ok, "silence below the threshold")

	msg, ok := w.ObserveSilence(now.Add(1801 * time.Second))
	require.True(t, ok)
	assert.Equal(t, "No measurement since 2026-08-23T12:00:00Z", msg)

	// Rate-limited, not fired on every frame.
	_, ok = w.ObserveSilence(now.Add(1900 * time.Second))
	assert.False(t, ok)

	// Prolonged silence repeats the alert after the warn interval.
	_, ok = w.ObserveSilence(now.Add(2500 * time.Second))
	assert.True(t, ok)

	// A successful reading moves the reference point.
	w.ObserveValue(5, "bar", now.Add(3000*time.Second))
	_, ok = w.ObserveSilence(now.Add(3100 * time.Second))
	assert.False(t, ok)
	_, ok = w.ObserveSilence(now.Add(3000*time.Second + 1801*time.Second))
	assert.True(t, ok)
}
