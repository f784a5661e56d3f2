package eelog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watcherErrBuffer is the buffer size for the error channel.
// A small buffer prevents error loss during brief moments when the consumer
// is busy, while keeping memory usage minimal.
const watcherErrBuffer = 16

// Watcher drives a Loader: it refreshes on a fixed poll interval and, when
// filesystem notifications are available, shortly after the file is
// written. Bursts of writes are debounced into a single refresh.
type Watcher struct {
	loader *Loader
	cfg    watchConfig // immutable after creation
	log    *slog.Logger

	mu       sync.Mutex
	closed   bool
	cancel   context.CancelFunc
	doneCh   chan struct{}
	watching bool
}

// NewWatcher creates a watcher for loader.
// Validates options. Does NOT start goroutines (cheap to call).
func NewWatcher(loader *Loader, opts ...WatchOption) (*Watcher, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is nil")
	}
	cfg := applyWatchOptions(opts)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	log := cfg.logger
	if log == nil {
		log = discardLogger
	}

	return &Watcher{
		loader: loader,
		cfg:    *cfg,
		log:    log,
	}, nil
}

// Watch starts watching and returns channels.
// A refresh runs immediately, then on every poll tick and debounced write.
// Each replaced snapshot is sent on the snapshot channel; refresh failures
// are sent on the error channel and do not stop the watcher.
// Both channels close on ctx.Done() or Close.
//
// Returns ErrWatcherClosed if the watcher has been closed.
// Returns ErrAlreadyWatching if Watch() has already been called.
func (w *Watcher) Watch(ctx context.Context) (<-chan *Snapshot, <-chan error, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, nil, ErrWatcherClosed
	}
	if w.watching {
		return nil, nil, ErrAlreadyWatching
	}
	w.watching = true

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.doneCh = make(chan struct{})

	snapCh := make(chan *Snapshot)
	errCh := make(chan error, watcherErrBuffer)

	go w.run(ctx, snapCh, errCh)

	return snapCh, errCh, nil
}

// Close stops the watcher. Safe to call multiple times.
// Blocks until the goroutine has exited. An in-flight parse is not
// interrupted; Close returns once it completes.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true

	if w.cancel != nil {
		w.cancel()
	}
	doneCh := w.doneCh
	w.mu.Unlock()

	if doneCh != nil {
		<-doneCh
	}
	return nil
}

func (w *Watcher) run(ctx context.Context, snapCh chan<- *Snapshot, errCh chan<- error) {
	defer close(w.doneCh)
	defer close(snapCh)
	defer close(errCh)

	notify := w.startNotify(ctx, errCh)
	if notify != nil {
		defer notify.close()
	}

	if !w.refresh(ctx, snapCh, errCh) {
		return
	}

	ticker := time.NewTicker(w.cfg.pollInterval)
	defer ticker.Stop()

	var debounce *time.Timer
	var debounceC <-chan time.Time
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if notify != nil {
				notify.retarget(w.loader.Path())
			}
			if !w.refresh(ctx, snapCh, errCh) {
				return
			}
		case <-notify.changed():
			if w.cfg.debounce == 0 {
				if !w.refresh(ctx, snapCh, errCh) {
					return
				}
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(w.cfg.debounce)
			} else {
				debounce.Reset(w.cfg.debounce)
			}
			debounceC = debounce.C
		case <-debounceC:
			debounceC = nil
			w.log.Debug("debounced file change, refreshing")
			if !w.refresh(ctx, snapCh, errCh) {
				return
			}
		}
	}
}

// refresh runs one Loader refresh and delivers the outcome.
// Returns false if ctx was cancelled while delivering.
func (w *Watcher) refresh(ctx context.Context, snapCh chan<- *Snapshot, errCh chan<- error) bool {
	changed, err := w.loader.Refresh()
	if err != nil {
		sendError(ctx, errCh, &WatchError{Op: WatchOpRefresh, Path: w.loader.Path(), Err: err})
		return ctx.Err() == nil
	}
	if !changed {
		return true
	}
	select {
	case snapCh <- w.loader.Snapshot():
		return true
	case <-ctx.Done():
		return false
	}
}

// fileNotifier forwards write notifications for a single file.
type fileNotifier struct {
	fsw    *fsnotify.Watcher
	log    *slog.Logger
	events chan struct{}
	doneCh chan struct{}

	mu   sync.Mutex
	path string
	dir  string
}

// startNotify begins watching the loader's file directory.
// Returns nil if notifications are disabled or unavailable; the watcher
// then relies on polling alone.
func (w *Watcher) startNotify(ctx context.Context, errCh chan<- error) *fileNotifier {
	if !w.cfg.notify {
		return nil
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.log.Debug("file notifications unavailable, polling only", "error", err)
		return nil
	}

	n := &fileNotifier{
		fsw:    fsw,
		log:    w.log,
		events: make(chan struct{}, 1),
		doneCh: make(chan struct{}),
	}
	n.retarget(w.loader.Path())
	go n.forward(ctx, errCh)
	return n
}

// changed is safe to call on a nil notifier; it then never fires.
func (n *fileNotifier) changed() <-chan struct{} {
	if n == nil {
		return nil
	}
	return n.events
}

// retarget follows the loader to a different file.
// The directory is watched because the game replaces the log on restart.
func (n *fileNotifier) retarget(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if path == "" || filepath.Clean(path) == n.path {
		return
	}
	dir := filepath.Dir(path)
	if dir != n.dir {
		if n.dir != "" {
			_ = n.fsw.Remove(n.dir)
		}
		if err := n.fsw.Add(dir); err != nil {
			n.log.Debug("cannot watch log directory", "dir", dir, "error", err)
			n.dir = ""
		} else {
			n.dir = dir
		}
	}
	n.path = filepath.Clean(path)
}

func (n *fileNotifier) currentPath() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path
}

func (n *fileNotifier) forward(ctx context.Context, errCh chan<- error) {
	defer close(n.doneCh)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-n.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != n.currentPath() {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			// Coalesce: one pending signal is enough
			select {
			case n.events <- struct{}{}:
			default:
			}
		case err, ok := <-n.fsw.Errors:
			if !ok {
				return
			}
			sendError(ctx, errCh, &WatchError{Op: WatchOpNotify, Err: err})
		}
	}
}

// close stops notifications and waits for the forwarding goroutine,
// which must not outlive the error channel it sends on.
func (n *fileNotifier) close() {
	_ = n.fsw.Close()
	<-n.doneCh
}

// sendError sends an error to the error channel.
// With a buffered channel, errors are only dropped if the buffer is full.
// The context case ensures we don't block during shutdown.
func sendError(ctx context.Context, errCh chan<- error, err error) {
	if err == nil {
		return
	}
	select {
	case errCh <- err:
	case <-ctx.Done():
	default:
		// Drop error only if buffer is full
	}
}
