package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// Watcher re-reads a config file when its modification time changes.
// It never pushes: callers poll between frames so a new config can only
// take effect at a frame boundary.
type Watcher struct {
	path     string
	modTime  time.Time
	interval time.Duration
	lastPoll time.Time
}

// NewWatcher creates a watcher for path. interval limits how often the file
// is stat'ed; zero checks on every poll.
func NewWatcher(path string, interval time.Duration) *Watcher {
	w := &Watcher{path: path, interval: interval}
	if info, err := os.Stat(path); err == nil {
		w.modTime = info.ModTime()
	}
	return w
}

// Poll returns the freshly loaded config and true if the file changed since
// the last successful load. A missing file counts as unchanged. A file that
// fails to parse is reported once and not retried until it changes again.
func (w *Watcher) Poll(now time.Time) (*Config, bool, error) {
	if w.interval > 0 && now.Sub(w.lastPoll) < w.interval {
		return nil, false, nil
	}
	w.lastPoll = now

	info, err := os.Stat(w.path)
	if errors.Is(err, fs.ErrNotExist) {
		// Not created yet; picked up on the first poll after it appears
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("stat config %s: %w", w.path, err)
	}
	if !info.ModTime().After(w.modTime) {
		return nil, false, nil
	}
	w.modTime = info.ModTime()

	cfg, err := LoadConfig(w.path)
	if err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}
