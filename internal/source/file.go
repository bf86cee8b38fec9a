package source

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// FileSource yields frames from image files matching a glob pattern, in
// lexical order. It is the offline collaborator used for replaying captured
// gauges and for end-to-end testing; live camera and network acquisition are
// separate transports.
type FileSource struct {
	log   *slog.Logger
	paths []string
	next  int
	seq   uint64
}

// NewFileSource expands the glob pattern and returns a source over the
// matching files. A pattern that matches nothing is a startup
// misconfiguration and returns an error.
func NewFileSource(pattern string, log *slog.Logger) (*FileSource, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid file pattern %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files match %q", pattern)
	}
	sort.Strings(paths)

	return &FileSource{log: log, paths: paths}, nil
}

// Next returns the next frame. It returns io.EOF once all files have been
// consumed. An unreadable or undecodable file returns a transient error; the
// file is skipped and the following call proceeds with the next one.
//
// The frame timestamp is the file's modification time, standing in for the
// capture time of the stored image.
func (s *FileSource) Next() (*Frame, error) {
	if s.next >= len(s.paths) {
		return nil, io.EOF
	}

	path := s.paths[s.next]
	s.next++

	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}

	timestamp := time.Now()
	if info, err := os.Stat(path); err == nil {
		timestamp = info.ModTime()
	}

	s.seq++
	frame := &Frame{
		ID:        uuid.New(),
		Seq:       s.seq,
		Timestamp: timestamp,
		Image:     img,
	}
	s.log.Debug("frame loaded", "path", path, "frame_id", frame.ID, "seq", frame.Seq)
	return frame, nil
}
