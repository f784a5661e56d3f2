package eelog

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Loader keeps the current snapshot of one log file and decides when the
// file must be re-parsed.
//
// Every re-parse derives the whole snapshot from scratch. The snapshot is
// replaced by a single atomic swap, so Snapshot may be called from any
// goroutine and always returns either the previous or the new snapshot.
// Refresh, Reload, Open and SetUTC are serialized.
type Loader struct {
	mu      sync.Mutex
	cfg     parseConfig
	log     *slog.Logger
	path    string
	lastMod time.Time

	snap atomic.Pointer[Snapshot]
}

// NewLoader creates a Loader for path without parsing it. The first Refresh
// performs the initial parse. path may be empty; call Open later.
func NewLoader(path string, opts ...ParseOption) (*Loader, error) {
	cfg := applyParseOptions(opts)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	return &Loader{
		cfg:  *cfg, // copy so later option slices can't alias
		log:  cfg.log(),
		path: path,
	}, nil
}

// Snapshot returns the current snapshot, or nil before the first successful parse.
func (l *Loader) Snapshot() *Snapshot {
	return l.snap.Load()
}

// Path returns the file currently loaded.
func (l *Loader) Path() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.path
}

// UTC reports whether display times are rendered in UTC.
func (l *Loader) UTC() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cfg.utc
}

// LastModified returns the modification time of the last successful parse.
func (l *Loader) LastModified() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastMod
}

// Refresh re-parses the file only if its modification time is strictly newer
// than the last one observed. It reports whether the snapshot was replaced.
//
// On error the previous snapshot is kept and the last observed modification
// time is left unchanged, so the next Refresh retries.
func (l *Loader) Refresh() (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.path == "" {
		return false, ErrNoPath
	}

	info, err := os.Stat(l.path)
	if err != nil {
		return false, &AccessError{Path: l.path, Err: err}
	}
	mod := info.ModTime()
	if !mod.After(l.lastMod) {
		l.log.Debug("log unchanged", "path", l.path, "mod_time", mod)
		return false, nil
	}

	l.log.Debug("log modified, re-parsing", "path", l.path, "mod_time", mod, "last", l.lastMod)
	if err := l.parseLocked(l.path); err != nil {
		return false, err
	}
	l.lastMod = mod
	return true, nil
}

// Reload re-parses the file regardless of its modification time.
func (l *Loader) Reload() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.path == "" {
		return ErrNoPath
	}
	return l.reloadLocked(l.path)
}

// Open switches to a different file and parses it immediately.
// If the new file cannot be read, the Loader keeps its previous file and snapshot.
func (l *Loader) Open(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.reloadLocked(path); err != nil {
		return err
	}
	l.path = path
	return nil
}

// SetUTC changes the display-time preference. Display times are rendered at
// parse time, so a loaded file is re-parsed immediately. If that re-parse
// fails, the previous preference is restored to match the kept snapshot.
func (l *Loader) SetUTC(utc bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev := l.cfg.utc
	l.cfg.utc = utc
	if l.path == "" {
		return nil
	}
	if err := l.reloadLocked(l.path); err != nil {
		l.cfg.utc = prev
		return err
	}
	return nil
}

func (l *Loader) reloadLocked(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &AccessError{Path: path, Err: err}
	}
	if err := l.parseLocked(path); err != nil {
		return err
	}
	l.lastMod = info.ModTime()
	return nil
}

func (l *Loader) parseLocked(path string) error {
	snap, err := parseFile(path, &l.cfg)
	if err != nil {
		l.log.Debug("parse failed, keeping previous snapshot", "path", path, "error", err)
		return err
	}
	l.snap.Store(snap)
	l.log.Debug("snapshot replaced", "path", path,
		"combat", len(snap.Combat), "warnings", len(snap.Warnings))
	return nil
}
