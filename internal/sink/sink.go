package sink

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/ironsheep/gauge-reader/internal/gauge"
)

// DirectorySink writes annotated frames as PNG files into a directory. With
// debug enabled it also writes every intermediate pipeline stage, one file
// per stage, named after the frame ID.
type DirectorySink struct {
	dir   string
	debug bool
	log   *slog.Logger
}

// NewDirectorySink creates the directory if needed and returns the sink.
func NewDirectorySink(dir string, debug bool, log *slog.Logger) (*DirectorySink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &DirectorySink{dir: dir, debug: debug, log: log}, nil
}

// Debugging reports whether intermediate stages should be delivered.
func (s *DirectorySink) Debugging() bool {
	return s.debug
}

// Final writes the final annotated frame.
func (s *DirectorySink) Final(frameID uuid.UUID, img image.Image) error {
	return s.save(frameID, "final", img)
}

// Bundle writes every present intermediate stage.
func (s *DirectorySink) Bundle(frameID uuid.UUID, b gauge.DebugBundle) error {
	stages := []struct {
		name string
		img  image.Image
	}{
		{"raw", b.Raw},
		{"dial", b.DialOverlay},
		{"thresholded", b.Thresholded},
		{"needle", b.NeedleOverlay},
	}
	for _, stage := range stages {
		if stage.img == nil {
			continue
		}
		if err := s.save(frameID, stage.name, stage.img); err != nil {
			return err
		}
	}
	return nil
}

func (s *DirectorySink) save(frameID uuid.UUID, stage string, img image.Image) error {
	path := filepath.Join(s.dir, fmt.Sprintf("%s_%s.png", frameID, stage))
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	s.log.Debug("image written", "path", path)
	return nil
}

// LogAlertSink emits alerts as error-level log records. It keeps the reader
// observable even when no messaging integration is wired up.
type LogAlertSink struct {
	Log *slog.Logger
}

func (s *LogAlertSink) Alert(msg string) {
	s.Log.Error(msg)
}

// MultiValueSink fans each reading out to several value sinks.
type MultiValueSink []gauge.ValueSink

func (m MultiValueSink) Publish(sample gauge.ValueSample) {
	for _, s := range m {
		s.Publish(sample)
	}
}

// LogValueSink emits readings as structured log records.
type LogValueSink struct {
	Log *slog.Logger
}

func (s *LogValueSink) Publish(sample gauge.ValueSample) {
	s.Log.Info("reading",
		"timestamp", sample.Timestamp.Format(time.RFC3339),
		"sensor", sample.Sensor,
		"value", sample.Value,
		"unit", sample.Unit)
}

// CSVValueSink appends readings as CSV lines: timestamp, sensor, value,
// unit. The writer is typically a file or stdout; the caller owns closing
// it.
type CSVValueSink struct {
	W io.Writer
}

func (s *CSVValueSink) Publish(sample gauge.ValueSample) {
	fmt.Fprintf(s.W, "%s,%s,%g,%s\n",
		sample.Timestamp.Format(time.RFC3339),
		sample.Sensor, sample.Value, sample.Unit)
}
