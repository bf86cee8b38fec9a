package gauge

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/gauge-reader/internal/imaging"
	"github.com/ironsheep/gauge-reader/internal/source"
)

// FrameSource produces frames for the reader. Next returns io.EOF when no
// more frames will ever come; any other error marks the frame as skippable.
type FrameSource interface {
	Next() (*source.Frame, error)
}

// DebugBundle collects the intermediate images of one frame's pipeline run.
// Stages that did not complete are nil.
type DebugBundle struct {
	Raw           image.Image
	DialOverlay   image.Image
	Thresholded   image.Image
	NeedleOverlay image.Image
	Final         image.Image
}

// DebugSink receives annotated output images. Final is called for every
// frame that produced a final annotation; Bundle is only called when
// Debugging reports true, with whatever intermediate stages exist.
type DebugSink interface {
	Debugging() bool
	Final(frameID uuid.UUID, img image.Image) error
	Bundle(frameID uuid.UUID, bundle DebugBundle) error
}

// AlertSink receives alert messages from the watchdogs.
type AlertSink interface {
	Alert(msg string)
}

// ValueSample is one published gauge reading.
type ValueSample struct {
	Timestamp time.Time
	Sensor    string
	Value     float64
	Unit      string
}

// ValueSink receives successful readings.
type ValueSink interface {
	Publish(sample ValueSample)
}

// Sinks bundles the reader's outputs. Any field may be nil, in which case
// that output is dropped.
type Sinks struct {
	Debug  DebugSink
	Alerts AlertSink
	Values ValueSink
}

// Reader runs the full gauge reading pipeline: acquire a frame, locate and
// stabilize the dial, detect the needle, convert its angle to a value, then
// publish, annotate and feed the watchdogs.
type Reader struct {
	cfg   Config
	log   *slog.Logger
	src   FrameSource
	sinks Sinks

	locator    *DialLocator
	stabilizer *DialStabilizer
	needle     *NeedleDetector
	scale      *Scale
	watchdog   *Watchdog

	failures int
}

// NewReader validates the configuration and wires up the pipeline.
func NewReader(cfg Config, src FrameSource, sinks Sinks, log *slog.Logger) (*Reader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Reader{
		cfg:   cfg,
		log:   log,
		src:   src,
		sinks: sinks,
	}
	r.locator = NewDialLocator(&r.cfg, log)
	r.stabilizer = NewDialStabilizer(cfg.DialWindow)
	r.needle = NewNeedleDetector(&r.cfg, log)
	r.scale = NewScale(&r.cfg)
	r.watchdog = NewWatchdog(&r.cfg, log, time.Now())
	return r, nil
}

// Run processes frames until the source is exhausted or the context is
// canceled. Per-frame detection failures are logged and skipped; only source
// exhaustion and context cancellation end the loop.
func (r *Reader) Run(ctx context.Context) error {
	for {
		start := time.Now()

		frame, err := r.src.Next()
		switch {
		case errors.Is(err, io.EOF):
			r.log.Info("frame source exhausted")
			return nil
		case err != nil:
			r.log.Warn("skipping frame", "err", err)
		default:
			if err := r.process(frame); err != nil {
				var detErr *DetectionError
				if !errors.As(err, &detErr) {
					return err
				}
				r.failures++
				r.log.Warn("detection failed", "kind", detErr.Kind, "err", detErr, "frame_id", frame.ID)
				if r.failures%10 == 0 {
					r.log.Info("detection failure count", "failures", r.failures)
				}
			}
		}

		if msg, ok := r.watchdog.ObserveSilence(time.Now()); ok {
			r.alert(msg)
		}

		if r.cfg.MinInterval > 0 {
			if remaining := r.cfg.MinInterval - time.Since(start); remaining > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(remaining):
				}
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

// process runs the pipeline on one frame.
func (r *Reader) process(frame *source.Frame) error {
	gray := imaging.ToGray(frame.Image)
	annotated := imaging.ToRGBA(frame.Image)

	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black := color.RGBA{A: 255}
	bottom := annotated.Bounds().Max.Y - 10
	imaging.DrawLabel(annotated, 4, bottom, frame.Timestamp.Format(time.RFC3339), white, black)

	bundle := DebugBundle{Raw: frame.Image}

	located, err := r.locator.Locate(gray)
	if located != nil {
		bundle.DialOverlay = located.Overlay
	}
	if err != nil {
		bundle.Final = annotated
		r.emitDebug(frame.ID, bundle)
		return err
	}

	dial := r.stabilizer.Push(located.Dial)
	drawDialFace(annotated, dial, r.scale, &r.cfg)

	needle, err := r.needle.Detect(gray, dial)
	if needle != nil {
		bundle.Thresholded = needle.Thresholded
		bundle.NeedleOverlay = needle.Overlay
	}
	if err != nil {
		bundle.Final = annotated
		r.emitDebug(frame.ID, bundle)
		return err
	}

	angleDeg := needle.AngleRad * 180 / math.Pi
	value := r.scale.Convert(angleDeg)
	unit := r.scale.Unit()

	drawNeedle(annotated, dial, needle.AngleRad)
	label := strconv.FormatFloat(value, 'g', -1, 64) + " " + unit
	imaging.DrawLabel(annotated, 4, bottom-10, label, white, black)
	bundle.Final = annotated

	r.log.Info("reading",
		"csv", fmt.Sprintf("%s,%s,%g,%s", frame.Timestamp.Format(time.RFC3339), r.cfg.Sensor, value, unit),
		"angle_deg", angleDeg,
		"frame_id", frame.ID)

	if r.sinks.Values != nil {
		r.sinks.Values.Publish(ValueSample{
			Timestamp: frame.Timestamp,
			Sensor:    r.cfg.Sensor,
			Value:     value,
			Unit:      unit,
		})
	}

	if msg, ok := r.watchdog.ObserveValue(value, unit, time.Now()); ok {
		r.alert(msg)
	}

	r.emitDebug(frame.ID, bundle)
	return nil
}

// emitDebug forwards the final annotation and, in debug mode, the full
// stage bundle.
func (r *Reader) emitDebug(frameID uuid.UUID, bundle DebugBundle) {
	if r.sinks.Debug == nil {
		return
	}
	if bundle.Final != nil {
		if err := r.sinks.Debug.Final(frameID, bundle.Final); err != nil {
			r.log.Warn("writing final annotation", "err", err)
		}
	}
	if r.sinks.Debug.Debugging() {
		if err := r.sinks.Debug.Bundle(frameID, bundle); err != nil {
			r.log.Warn("writing debug bundle", "err", err)
		}
	}
}

// Failures returns the number of frames rejected by detection so far. Useful
// when replaying captures to gate how many debug bundles to keep.
func (r *Reader) Failures() int {
	return r.failures
}

func (r *Reader) alert(msg string) {
	r.log.Warn("alert", "msg", msg)
	if r.sinks.Alerts != nil {
		r.sinks.Alerts.Alert(msg)
	}
}
