package sink

import (
	"bytes"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/gauge-reader/internal/gauge"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDirectorySink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	s, err := NewDirectorySink(dir, true, testLogger())
	if err != nil {
		t.Fatalf("NewDirectorySink: %v", err)
	}
	if !s.Debugging() {
		t.Error("debug flag should be reported")
	}

	id := uuid.New()
	img := image.NewGray(image.Rect(0, 0, 4, 4))

	if err := s.Final(id, img); err != nil {
		t.Fatalf("Final: %v", err)
	}
	if err := s.Bundle(id, gauge.DebugBundle{Raw: img, Thresholded: img}); err != nil {
		t.Fatalf("Bundle: %v", err)
	}

	for _, name := range []string{"final", "raw", "thresholded"} {
		path := filepath.Join(dir, id.String()+"_"+name+".png")
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %s stage file: %v", name, err)
		}
	}
	// Absent stages produce no files.
	if _, err := os.Stat(filepath.Join(dir, id.String()+"_dial.png")); err == nil {
		t.Error("nil stage should not be written")
	}
}

func TestCSVValueSink(t *testing.T) {
	var buf bytes.Buffer
	s := &CSVValueSink{W: &buf}

	s.Publish(gauge.ValueSample{
		Timestamp: time.Date(2026, 8, 23, 10, 30, 0, 0, time.UTC),
		Sensor:    "boiler",
		Value:     4.25,
		Unit:      "bar",
	})

	want := "2026-08-23T10:30:00Z,boiler,4.25,bar\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestMultiValueSink(t *testing.T) {
	var a, b bytes.Buffer
	m := MultiValueSink{&CSVValueSink{W: &a}, &CSVValueSink{W: &b}}

	m.Publish(gauge.ValueSample{
		Timestamp: time.Date(2026, 8, 23, 10, 30, 0, 0, time.UTC),
		Sensor:    "boiler",
		Value:     1,
		Unit:      "bar",
	})

	if a.String() == "" || a.String() != b.String() {
		t.Errorf("both sinks should receive the reading, got %q and %q", a.String(), b.String())
	}
}
