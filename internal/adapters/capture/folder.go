package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kamal-hamza/obras-cli/internal/core/ports"
	"github.com/kamal-hamza/obras-cli/internal/logging"
)

// DefaultSettle is how long a file must stay unchanged before it is picked up
const DefaultSettle = 500 * time.Millisecond

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// IsImageFile reports whether name has a supported image extension
func IsImageFile(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// FolderSource waits for photos dropped into an inbox folder (camera sync, phone upload, scanner).
// Photos that arrive together are queued and returned one per Next call, oldest first.
type FolderSource struct {
	dir     string
	settle  time.Duration
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	pending []string             // arrival order
	changed map[string]time.Time // last event per pending path
}

// Ensure it implements the interface
var _ ports.CaptureSource = (*FolderSource)(nil)

// NewFolderSource starts watching dir. Files already present are ignored.
func NewFolderSource(dir string, settle time.Duration, logger *slog.Logger) (*FolderSource, error) {
	if settle <= 0 {
		settle = DefaultSettle
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create inbox directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	return &FolderSource{
		dir:     dir,
		settle:  settle,
		watcher: watcher,
		logger:  logging.Component(logger, "capture"),
		changed: make(map[string]time.Time),
	}, nil
}

// Dir returns the watched folder
func (s *FolderSource) Dir() string {
	return s.dir
}

// Next blocks until an image file appears and stops changing, then returns its path.
// It is not safe for concurrent use.
func (s *FolderSource) Next(ctx context.Context) (string, error) {
	for {
		path, wait := s.nextSettled(time.Now())
		if path != "" {
			return path, nil
		}

		var settled <-chan time.Time
		if wait >= 0 {
			settled = time.After(wait)
		}

		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return "", errors.New("watcher closed")
			}

			base := filepath.Base(event.Name)
			if strings.HasPrefix(base, ".") || !IsImageFile(base) {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			s.touch(event.Name, time.Now())

		case <-settled:

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return "", errors.New("watcher closed")
			}
			s.logger.Warn("watcher error", logging.Err(err))

		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// touch queues path, or restarts its settle window when it is already queued
func (s *FolderSource) touch(path string, now time.Time) {
	if _, queued := s.changed[path]; !queued {
		s.pending = append(s.pending, path)
		if len(s.pending) > 1 {
			s.logger.Debug("photo queued", "path", path, "queued", len(s.pending))
		}
	}
	s.changed[path] = now
}

// nextSettled removes and returns the oldest queued photo whose writes have settled.
// When none is ready it returns how long until the earliest one will be, or -1 when
// nothing is queued.
func (s *FolderSource) nextSettled(now time.Time) (string, time.Duration) {
	wait := time.Duration(-1)
	found := ""
	kept := s.pending[:0]

	for _, path := range s.pending {
		if found != "" {
			kept = append(kept, path)
			continue
		}

		ready := s.changed[path].Add(s.settle)
		if now.Before(ready) {
			if d := ready.Sub(now); wait < 0 || d < wait {
				wait = d
			}
			kept = append(kept, path)
			continue
		}

		delete(s.changed, path)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() || info.Size() == 0 {
			s.logger.Debug("ignoring vanished or empty file", "path", path)
			continue
		}
		s.logger.Info("photo received", "path", path, "bytes", info.Size())
		found = path
	}

	s.pending = kept
	return found, wait
}

// Close stops watching
func (s *FolderSource) Close() error {
	return s.watcher.Close()
}
