package source

import (
	"errors"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func writeTestImage(t *testing.T, path string, shade uint8) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = shade
	}
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("saving %s: %v", path, err)
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewFileSource_NoMatches(t *testing.T) {
	dir := t.TempDir()

	_, err := NewFileSource(filepath.Join(dir, "*.png"), testLogger())
	if err == nil {
		t.Fatal("expected an error for a pattern with no matches")
	}
}

func TestFileSource_LexicalOrderAndEOF(t *testing.T) {
	dir := t.TempDir()
	writeTestImage(t, filepath.Join(dir, "b.png"), 10)
	writeTestImage(t, filepath.Join(dir, "a.png"), 200)

	src, err := NewFileSource(filepath.Join(dir, "*.png"), testLogger())
	if err != nil {
		t.Fatalf("NewFileSource: %v", err)
	}

	first, err := src.Next()
	if err != nil {
		t.Fatalf("first Next: %v", err)
	}
	second, err := src.Next()
	if err != nil {
		t.Fatalf("second Next: %v", err)
	}

	if first.Seq != 1 || second.Seq != 2 {
		t.Errorf("sequence numbers should increment, got %d then %d", first.Seq, second.Seq)
	}
	if first.ID == second.ID {
		t.Error("frames should get distinct IDs")
	}
	if first.Timestamp.IsZero() {
		t.Error("frame timestamp should come from the file modification time")
	}

	_, err = src.Next()
	if !errors.Is(err, io.EOF) {
		t.Fatalf("exhausted source should return io.EOF, got %v", err)
	}
	// EOF is sticky.
	_, err = src.Next()
	if !errors.Is(err, io.EOF) {
		t.Fatalf("EOF should repeat on subsequent calls, got %v", err)
	}
}

func TestFileSource_SkipsUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "a.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	writeTestImage(t, filepath.Join(dir, "b.png"), 50)

	src, err := NewFileSource(filepath.Join(dir, "*.png"), testLogger())
	if err != nil {
		t.Fatalf("NewFileSource: %v", err)
	}

	if _, err := src.Next(); err == nil {
		t.Fatal("expected a decode error for the corrupt file")
	}

	// The source must have advanced past the bad file.
	frame, err := src.Next()
	if err != nil {
		t.Fatalf("Next after bad file: %v", err)
	}
	if frame == nil || frame.Image == nil {
		t.Fatal("expected the good frame after skipping the bad file")
	}
}
