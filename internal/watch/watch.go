// Package watch re-runs work when a script file changes on disk.
package watch

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// Op describes what happened to the watched file.
type Op uint8

const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
)

// Event is a change to the watched file.
type Event struct {
	Path string
	Op   Op
	Time time.Time
}

// FileWatcher delivers changes to a single file using OS-native
// notifications. The parent directory is watched so that editors which
// save by renaming a temporary file are still noticed.
type FileWatcher struct {
	w    *fsnotify.Watcher
	path string
	evC  chan Event
	erC  chan error
}

// NewFileWatcher starts watching path.
func NewFileWatcher(path string) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve %s", path)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create watcher")
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, errors.Wrapf(err, "watch %s", filepath.Dir(abs))
	}

	fw := &FileWatcher{w: w, path: abs, evC: make(chan Event, 16), erC: make(chan error, 1)}
	go fw.loop()
	return fw, nil
}

func (fw *FileWatcher) loop() {
	defer close(fw.evC)
	for {
		select {
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != fw.path {
				continue
			}
			var op Op
			if ev.Op&fsnotify.Create != 0 {
				op |= OpCreate
			}
			if ev.Op&fsnotify.Write != 0 {
				op |= OpWrite
			}
			if ev.Op&fsnotify.Remove != 0 {
				op |= OpRemove
			}
			if ev.Op&fsnotify.Rename != 0 {
				op |= OpRename
			}
			if op == 0 {
				continue // chmod only
			}
			// A full buffer already guarantees a pending re-run.
			select {
			case fw.evC <- Event{Path: fw.path, Op: op, Time: time.Now()}:
			default:
			}
		case err, ok := <-fw.w.Errors:
			if !ok {
				return
			}
			select {
			case fw.erC <- err:
			default:
			}
		}
	}
}

func (fw *FileWatcher) Events() <-chan Event { return fw.evC }
func (fw *FileWatcher) Errors() <-chan error { return fw.erC }
func (fw *FileWatcher) Close() error         { return fw.w.Close() }

// Run calls fn once immediately and again after every burst of changes to
// path, waiting for debounce of quiet between the last event and the call.
// It returns when ctx is done or the watcher fails.
func Run(ctx context.Context, path string, debounce time.Duration, logger *log.Logger, fn func()) error {
	fw, err := NewFileWatcher(path)
	if err != nil {
		return err
	}
	defer fw.Close()

	fn()

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events():
			if !ok {
				return nil
			}
			if logger != nil {
				logger.Debug("change detected", "path", ev.Path, "op", ev.Op)
			}
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(debounce)
			pending = true
		case err := <-fw.Errors():
			return errors.Wrap(err, "watch")
		case <-timer.C:
			pending = false
			if logger != nil {
				logger.Info("re-running", "path", path)
			}
			fn()
		}
	}
}

func (op Op) String() string {
	var names []string
	for _, n := range []struct {
		op   Op
		name string
	}{{OpCreate, "create"}, {OpWrite, "write"}, {OpRemove, "remove"}, {OpRename, "rename"}} {
		if op&n.op != 0 {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}
