// Package watch monitors a captures directory for session activity. New
// session directories are picked up as they appear and their sample index is
// re-summarized after a debounce window whenever it grows.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/pixelfall-labs/vidcap/internal/capture"
	"github.com/pixelfall-labs/vidcap/internal/inspect"
)

// DefaultDebounce is the delay between index file activity and
// re-summarizing a session.
const DefaultDebounce = 500 * time.Millisecond

// UpdateFunc receives a fresh summary for a session directory.
type UpdateFunc func(dir string, sum inspect.Summary)

// Watcher observes one captures directory.
type Watcher struct {
	dir      string
	debounce time.Duration
	onUpdate UpdateFunc
	logger   zerolog.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// New creates a Watcher for the given captures directory. onUpdate may be
// nil, in which case summaries are logged instead.
func New(dir string, debounce time.Duration, onUpdate UpdateFunc) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		dir:      dir,
		debounce: debounce,
		onUpdate: onUpdate,
		logger:   capture.Logger(),
		timers:   make(map[string]*time.Timer),
	}
}

// Run watches until the context is cancelled. Existing session directories
// are registered up front so sessions already in progress are covered.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()
	defer w.stopTimers()

	if err := fw.Add(w.dir); err != nil {
		return err
	}

	ents, err := os.ReadDir(w.dir)
	if err != nil {
		return err
	}
	for _, e := range ents {
		if e.IsDir() {
			w.addSession(fw, filepath.Join(w.dir, e.Name()))
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handle(fw, ev)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("watch error")
		}
	}
}

func (w *Watcher) handle(fw *fsnotify.Watcher, ev fsnotify.Event) {
	if ev.Op&fsnotify.Create != 0 && filepath.Dir(ev.Name) == filepath.Clean(w.dir) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			w.logger.Info().Str("session", filepath.Base(ev.Name)).Msg("new capture session")
			w.addSession(fw, ev.Name)
			return
		}
	}

	if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 && filepath.Base(ev.Name) == capture.IndexFileName {
		w.schedule(filepath.Dir(ev.Name))
	}
}

func (w *Watcher) addSession(fw *fsnotify.Watcher, dir string) {
	if err := fw.Add(dir); err != nil {
		w.logger.Warn().Err(err).Str("dir", dir).Msg("failed to watch session directory")
		return
	}
	w.schedule(dir)
}

// schedule resets the debounce timer for a session directory so a burst of
// index writes collapses into one summary.
func (w *Watcher) schedule(dir string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[dir]; ok {
		t.Stop()
	}
	w.timers[dir] = time.AfterFunc(w.debounce, func() { w.emit(dir) })
}

func (w *Watcher) emit(dir string) {
	sum, err := inspect.Inspect(dir)
	if err != nil {
		// The session may not have written its metadata or index yet.
		w.logger.Debug().Err(err).Str("dir", dir).Msg("session not summarizable yet")
		return
	}
	if w.onUpdate != nil {
		w.onUpdate(dir, sum)
		return
	}
	w.logger.Info().
		Str("session", filepath.Base(dir)).
		Int("samples", sum.Samples).
		Int("csd", sum.CSD).
		Int64("bitstream_bytes", sum.BitstreamBytes).
		Str("end_reason", sum.EndReason).
		Msg("capture session update")
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, t := range w.timers {
		t.Stop()
	}
}
