package gauge

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Watchdog raises alerts for two conditions: the median reading leaving the
// configured warn bounds, and the reader going silent (no successful reading
// for too long).
//
// Value alerts are rate-limited by WarnInterval and require a full reading
// window, so a brief misdetection cannot fire one. With NaN warn bounds the
// comparisons are never true and value alerting is effectively disabled.
type Watchdog struct {
	cfg     *Config
	log     *slog.Logger
	history *ValueHistory

	lastAlert   time.Time
	lastSuccess time.Time
}

// NewWatchdog returns a watchdog anchored at now. The alert clock starts one
// interval in the past so the very first out-of-bounds window alerts
// immediately instead of waiting out a full interval.
func NewWatchdog(cfg *Config, log *slog.Logger, now time.Time) *Watchdog {
	return &Watchdog{
		cfg:         cfg,
		log:         log,
		history:     NewValueHistory(cfg.ValueWindow),
		lastAlert:   now.Add(-cfg.WarnInterval),
		lastSuccess: now,
	}
}

// ObserveValue records a successful reading. It returns an alert message and
// true when the median reading breaches a warn bound and the rate limit
// allows another alert.
func (w *Watchdog) ObserveValue(value float64, unit string, now time.Time) (string, bool) {
	w.history.Push(value)
	w.lastSuccess = now

	if !w.history.Full() {
		return "", false
	}

	med := w.history.Median()
	breach := med <= w.cfg.MinWarn || med >= w.cfg.MaxWarn
	if !breach {
		return "", false
	}
	if now.Sub(w.lastAlert) < w.cfg.WarnInterval {
		return "", false
	}
	w.lastAlert = now

	msg := os.Expand(w.cfg.AlertTemplate, func(name string) string {
		switch name {
		case "value":
			return strconv.FormatFloat(med, 'g', -1, 64) + " " + unit
		case "time":
			return now.Format(time.RFC3339)
		default:
			return ""
		}
	})
	w.log.Warn("median reading out of bounds", "median", med, "unit", unit)
	return msg, true
}

// ObserveSilence checks how long it has been since the last successful
// reading. It returns an alert message and true when the silence exceeds
// WarnNoDetections. Silence alerts share the rate-limit clock with value
// alerts, so prolonged silence repeats the alert once per WarnInterval.
func (w *Watchdog) ObserveSilence(now time.Time) (string, bool) {
	if now.Sub(w.lastSuccess) < w.cfg.WarnNoDetections {
		return "", false
	}
	if now.Sub(w.lastAlert) < w.cfg.WarnInterval {
		return "", false
	}
	w.lastAlert = now
	w.log.Warn("no successful reading", "since", w.lastSuccess)
	return "No measurement since " + w.lastSuccess.Format(time.RFC3339), true
}

// Median exposes the current median reading, 0 when the history is empty.
func (w *Watchdog) Median() float64 {
	return w.history.Median()
}

// HistoryFull reports whether enough readings have accumulated for value
// alerting.
func (w *Watchdog) HistoryFull() bool {
	return w.history.Full()
}
