// Package watch reruns a job when Go sources of watched directories change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDelay is the quiet period after the last change before the
// change callback runs.
const DefaultDelay = 200 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	// Delay is the debounce period. Defaults to DefaultDelay.
	Delay time.Duration
	// Ignore holds base name patterns (filepath.Match syntax) of files
	// whose changes are ignored, such as the generated file.
	Ignore []string
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Watcher monitors directories and reports changed Go files in batches.
type Watcher struct {
	fsw       *fsnotify.Watcher
	debouncer *Debouncer
	dirs      []string
	ignored   []string
	logger    *slog.Logger
	stopChan  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// New creates a watcher of dirs. onChange receives the sorted paths of
// the files changed since the previous call.
func New(dirs []string, opts Options, onChange func([]string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	w := &Watcher{
		fsw:       fsw,
		debouncer: NewDebouncer(opts.Delay),
		dirs:      dirs,
		ignored:   opts.Ignore,
		logger:    opts.Logger,
		stopChan:  make(chan struct{}),
	}
	w.debouncer.SetCallback(onChange)
	return w, nil
}

// Start begins watching in the background.
func (w *Watcher) Start() error {
	for _, dir := range w.dirs {
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		w.logger.Debug("watching directory", slog.String("dir", dir))
	}
	w.wg.Add(1)
	go w.watch()
	return nil
}

// Stop stops the watcher. Pending changes are dropped.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopChan)
		w.wg.Wait()
		w.debouncer.Stop()
		err = w.fsw.Close()
	})
	return err
}

// Run watches until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.Start(); err != nil {
		_ = w.Stop()
		return err
	}
	<-ctx.Done()
	return w.Stop()
}

func (w *Watcher) watch() {
	defer w.wg.Done()
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if w.shouldIgnore(event.Name) {
				continue
			}
			w.logger.Debug("file changed", slog.String("file", event.Name), slog.String("op", event.Op.String()))
			w.debouncer.Add(event.Name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", slog.Any("error", err))
		case <-w.stopChan:
			return
		}
	}
}

// shouldIgnore reports whether a change of path cannot affect generation:
// non-Go files, tests, hidden files and the ignored patterns.
func (w *Watcher) shouldIgnore(path string) bool {
	base := filepath.Base(path)
	switch {
	case filepath.Ext(base) != ".go",
		strings.HasSuffix(base, "_test.go"),
		strings.HasPrefix(base, "."), strings.HasPrefix(base, "_"):
		return true
	}
	for _, pattern := range w.ignored {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

// Debouncer collects file changes and triggers callbacks after a delay.
type Debouncer struct {
	duration time.Duration
	timer    *time.Timer
	files    map[string]struct{}
	mutex    sync.Mutex
	callback func([]string)
	stopped  bool
}

// NewDebouncer creates a new debouncer instance.
func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{
		duration: duration,
		files:    make(map[string]struct{}),
	}
}

// Add records a change of file and restarts the delay.
func (d *Debouncer) Add(file string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.stopped {
		return
	}
	d.files[file] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, d.flush)
}

// flush triggers the callback with the accumulated files. The callback
// runs outside the lock so changes keep accumulating meanwhile.
func (d *Debouncer) flush() {
	d.mutex.Lock()
	if d.stopped || len(d.files) == 0 {
		d.mutex.Unlock()
		return
	}
	files := make([]string, 0, len(d.files))
	for file := range d.files {
		files = append(files, file)
	}
	d.files = make(map[string]struct{})
	callback := d.callback
	d.mutex.Unlock()

	slices.Sort(files)
	if callback != nil {
		callback(files)
	}
}

// SetCallback sets the callback function.
func (d *Debouncer) SetCallback(callback func([]string)) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.callback = callback
}

// Stop stops the debouncer. It is safe to call more than once.
func (d *Debouncer) Stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.stopped = true
}
