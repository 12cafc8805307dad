// Package watcher reports debounced changes to CAD documents on disk.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period before a batch of changes is reported.
// Inventor saves an assembly and its parts as a burst of writes.
const DefaultDebounce = 500 * time.Millisecond

// DefaultExtensions are the Inventor document extensions watched by default.
var DefaultExtensions = []string{".iam", ".ipt"}

// backupDir is where Inventor keeps previous versions of saved documents.
const backupDir = "oldversions"

// DocumentWatcher reports saved Inventor documents in debounced batches.
type DocumentWatcher interface {
	// Start begins watching. callback receives each batch of changed paths,
	// sorted, on the watcher's goroutine.
	Start(ctx context.Context, callback func(files []string)) error

	// Stop stops the watcher and releases the fsnotify handle.
	Stop() error

	// Pause holds batches back while changes keep accumulating, e.g. while
	// a report is being written.
	Pause()

	// Resume delivers anything held back during the pause as one batch, on
	// the caller's goroutine, and resumes normal delivery.
	Resume()
}

// Options configures a DocumentWatcher.
type Options struct {
	Debounce   time.Duration // zero means DefaultDebounce
	Extensions []string      // nil means DefaultExtensions; matched case-insensitively
	Logger     *zap.Logger
}

type documentWatcher struct {
	watcher       *fsnotify.Watcher
	log           *zap.Logger
	extensions    map[string]bool
	debounceTime  time.Duration
	callback      func(files []string)
	ctx           context.Context
	cancel        context.CancelFunc
	paused        atomic.Bool
	accumulated   map[string]bool
	accumulatedMu sync.Mutex
	debounceTimer *time.Timer
	timerMu       sync.Mutex
	stopOnce      sync.Once
	doneCh        chan struct{}
}

// New creates a watcher over dirs and all their subdirectories.
func New(dirs []string, opts Options) (DocumentWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Extensions == nil {
		opts.Extensions = DefaultExtensions
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	extMap := make(map[string]bool, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		extMap[strings.ToLower(ext)] = true
	}

	dw := &documentWatcher{
		watcher:      watcher,
		log:          opts.Logger,
		extensions:   extMap,
		debounceTime: opts.Debounce,
		accumulated:  make(map[string]bool),
		doneCh:       make(chan struct{}),
	}

	for _, dir := range dirs {
		if err := dw.addDirectoriesRecursively(dir); err != nil {
			watcher.Close()
			return nil, err
		}
	}

	return dw, nil
}

// Start begins watching for file changes.
func (dw *documentWatcher) Start(ctx context.Context, callback func(files []string)) error {
	if callback == nil {
		return nil
	}

	dw.callback = callback
	dw.ctx, dw.cancel = context.WithCancel(ctx)

	go dw.watch()
	return nil
}

// Stop stops the watcher.
func (dw *documentWatcher) Stop() error {
	var err error
	dw.stopOnce.Do(func() {
		if dw.cancel != nil {
			dw.cancel()
			<-dw.doneCh
		} else {
			// Never started
			close(dw.doneCh)
		}
		err = dw.watcher.Close()
	})
	return err
}

func (dw *documentWatcher) Pause() {
	dw.paused.Store(true)
}

func (dw *documentWatcher) Resume() {
	if dw.paused.Swap(false) {
		dw.flush()
	}
}

func (dw *documentWatcher) watch() {
	defer close(dw.doneCh)

	fireCh := make(chan struct{}, 1)

	for {
		select {
		case <-dw.ctx.Done():
			dw.stopDebounceTimer()
			return

		case event, ok := <-dw.watcher.Events:
			if !ok {
				return
			}

			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := dw.addDirectoriesRecursively(event.Name); err != nil {
						dw.log.Warn("failed to watch new directory", zap.String("dir", event.Name), zap.Error(err))
					}
				}
			}

			if !dw.shouldProcessEvent(event) {
				continue
			}

			dw.accumulatedMu.Lock()
			dw.accumulated[event.Name] = true
			dw.accumulatedMu.Unlock()

			dw.resetDebounceTimer(fireCh)

		case <-fireCh:
			// Held back until Resume
			if !dw.paused.Load() {
				dw.flush()
			}

		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			dw.log.Warn("watcher error", zap.Error(err))
		}
	}
}

// flush fires the callback with accumulated files, if any.
func (dw *documentWatcher) flush() {
	dw.accumulatedMu.Lock()
	if len(dw.accumulated) == 0 {
		dw.accumulatedMu.Unlock()
		return
	}
	files := make([]string, 0, len(dw.accumulated))
	for file := range dw.accumulated {
		files = append(files, file)
	}
	dw.accumulated = make(map[string]bool)
	dw.accumulatedMu.Unlock()

	sort.Strings(files)
	dw.log.Debug("documents changed", zap.Strings("files", files))
	if dw.callback != nil {
		dw.callback(files)
	}
}

// resetDebounceTimer resets the debounce timer, properly stopping the old one.
func (dw *documentWatcher) resetDebounceTimer(fireCh chan struct{}) {
	dw.timerMu.Lock()
	defer dw.timerMu.Unlock()

	if dw.debounceTimer != nil {
		dw.debounceTimer.Stop()
	}

	dw.debounceTimer = time.AfterFunc(dw.debounceTime, func() {
		select {
		case fireCh <- struct{}{}:
		default:
		}
	})
}

func (dw *documentWatcher) stopDebounceTimer() {
	dw.timerMu.Lock()
	defer dw.timerMu.Unlock()

	if dw.debounceTimer != nil {
		dw.debounceTimer.Stop()
		dw.debounceTimer = nil
	}
}

// shouldProcessEvent keeps writes, creates, removes and renames of watched
// document types outside Inventor's backup folders.
func (dw *documentWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if isBackup(event.Name) {
		return false
	}
	return dw.extensions[strings.ToLower(filepath.Ext(event.Name))]
}

func isBackup(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if strings.EqualFold(part, backupDir) {
			return true
		}
	}
	return false
}

// addDirectoriesRecursively adds all directories in the tree to the watcher,
// skipping Inventor backup folders.
func (dw *documentWatcher) addDirectoriesRecursively(rootPath string) error {
	return filepath.WalkDir(rootPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == rootPath {
				return err
			}
			dw.log.Warn("error accessing path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != rootPath && strings.EqualFold(d.Name(), backupDir) {
			return filepath.SkipDir
		}
		if err := dw.watcher.Add(path); err != nil {
			dw.log.Warn("failed to watch directory", zap.String("dir", path), zap.Error(err))
		}
		return nil
	})
}
