package eelog

import (
	"errors"
	"fmt"

	"github.com/eelog/eelog-go/internal/logfinder"
)

// Sentinel errors.
var (
	// ErrAccess matches any *AccessError via errors.Is.
	ErrAccess = errors.New("log file not accessible")

	// ErrEnvNotSet is returned when no log path was given and the default
	// path cannot be built from the environment.
	ErrEnvNotSet = logfinder.ErrEnvNotSet

	// ErrLogFileNotFound is returned when the resolved log path does not exist.
	ErrLogFileNotFound = logfinder.ErrLogFileNotFound

	// ErrNoPath is returned by Loader operations before a file is opened.
	ErrNoPath = errors.New("no log file loaded")

	ErrWatcherClosed   = errors.New("watcher closed")
	ErrAlreadyWatching = errors.New("watch already called")
)

// AccessError reports a log file that could not be read during a parse pass.
// It is recoverable: a Loader keeps its previous snapshot.
type AccessError struct {
	Path string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrAccess.
func (e *AccessError) Is(target error) bool {
	return target == ErrAccess
}

// ConfigError reports a host configuration problem, such as a missing
// environment variable needed to locate the default log.
type ConfigError struct {
	Key string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s: %v", e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// WatchOp identifies the watcher step that failed.
type WatchOp string

const (
	WatchOpRefresh WatchOp = "refresh"
	WatchOpNotify  WatchOp = "notify"
	WatchOpTail    WatchOp = "tail"
	WatchOpParse   WatchOp = "parse"
)

// WatchError is sent on a watcher's or follower's error channel.
type WatchError struct {
	Op   WatchOp
	Path string
	Err  error
}

func (e *WatchError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *WatchError) Unwrap() error {
	return e.Err
}
