// Package tailer follows a log file as it is appended to.
package tailer

import (
	"context"
	"io"
	"strings"

	"github.com/nxadm/tail"
)

// errBuffer is the buffer size for the error channel.
const errBuffer = 16

// Config configures a Tailer.
type Config struct {
	// Offset is the byte position to start reading from.
	Offset int64

	// Poll uses stat polling instead of filesystem notifications.
	Poll bool
}

// DefaultConfig returns a Config that reads from the beginning of the file.
func DefaultConfig() Config {
	return Config{}
}

// Tailer emits lines appended to a file. The game recreates its log on
// restart, so the file is reopened when it is replaced.
type Tailer struct {
	t      *tail.Tail
	lines  chan string
	errs   chan error
	doneCh chan struct{}
}

// New starts following path. Lines are delivered until ctx is cancelled or
// Stop is called.
func New(ctx context.Context, path string, cfg Config) (*Tailer, error) {
	t, err := tail.TailFile(path, tail.Config{
		Location:  &tail.SeekInfo{Offset: cfg.Offset, Whence: io.SeekStart},
		ReOpen:    true,
		MustExist: true,
		Poll:      cfg.Poll,
		Follow:    true,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return nil, err
	}

	tl := &Tailer{
		t:      t,
		lines:  make(chan string),
		errs:   make(chan error, errBuffer),
		doneCh: make(chan struct{}),
	}
	go tl.run(ctx)
	return tl, nil
}

// Lines returns the channel of appended lines (without line terminators).
func (tl *Tailer) Lines() <-chan string {
	return tl.lines
}

// Errors returns the channel of read errors.
func (tl *Tailer) Errors() <-chan error {
	return tl.errs
}

// Stop stops following and releases the underlying file watch.
func (tl *Tailer) Stop() error {
	err := tl.t.Stop()
	<-tl.doneCh
	tl.t.Cleanup()
	return err
}

func (tl *Tailer) run(ctx context.Context) {
	defer close(tl.doneCh)
	defer close(tl.lines)
	defer close(tl.errs)

	for {
		select {
		case <-ctx.Done():
			return
		case <-tl.t.Dying():
			return
		case line, ok := <-tl.t.Lines:
			if !ok {
				return
			}
			if line.Err != nil {
				select {
				case tl.errs <- line.Err:
				default:
					// Buffer full; drop rather than stall the reader
				}
				continue
			}
			select {
			case tl.lines <- strings.TrimRight(line.Text, "\r"):
			case <-ctx.Done():
				return
			case <-tl.t.Dying():
				return
			}
		}
	}
}
