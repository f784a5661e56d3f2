package eelog

import (
	"bytes"
	"context"
	"fmt"

	"github.com/eelog/eelog-go/internal/parser"
	"github.com/eelog/eelog-go/internal/safefile"
	"github.com/eelog/eelog-go/internal/tailer"
)

// Follow streams combat events and damage warnings as they are appended to
// the log at path.
//
// The lines already in the file establish the player name and time base
// (and are emitted too when WithReplay is set). Following then starts at the
// end of the last complete line read, so no appended line is missed and a
// line caught half-written is delivered whole. Malformed lines
// are reported on the error channel as *WatchError and skipped.
//
// Both channels close when ctx is cancelled.
//
// Example:
//
//	events, errs, err := eelog.Follow(ctx, path,
//	    eelog.WithFollowParseOptions(eelog.WithUTC(true)),
//	)
func Follow(ctx context.Context, path string, opts ...FollowOption) (<-chan LiveEvent, <-chan error, error) {
	fcfg := applyFollowOptions(opts)
	pcfg := applyParseOptions(fcfg.parse)
	if err := pcfg.validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid options: %w", err)
	}

	data, info, err := safefile.ReadRegular(path, pcfg.maxFileSize)
	if err != nil {
		return nil, nil, &AccessError{Path: path, Err: err}
	}
	// A line the game is still writing is left for the tailer to read whole.
	complete := data[:bytes.LastIndexByte(data, '\n')+1]
	history, _ := parser.ClassifyAll(string(complete))
	stream := parser.NewStream(pcfg.parserConfig(info.ModTime()), history)

	tcfg := tailer.DefaultConfig()
	tcfg.Offset = int64(len(complete))
	tcfg.Poll = fcfg.poll
	t, err := tailer.New(ctx, path, tcfg)
	if err != nil {
		return nil, nil, &WatchError{Op: WatchOpTail, Path: path, Err: err}
	}
	pcfg.log().Debug("following log", "path", path, "offset", tcfg.Offset, "anchored", stream.Anchor().Anchored)

	eventCh := make(chan LiveEvent)
	errCh := make(chan error, watcherErrBuffer)

	go func() {
		defer close(eventCh)
		defer close(errCh)
		defer func() { _ = t.Stop() }()

		send := func(ev *LiveEvent) bool {
			if ev == nil {
				return true
			}
			if !fcfg.includeRawLine {
				ev.RawLine = ""
			}
			select {
			case eventCh <- *ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if fcfg.replay {
			for _, l := range history {
				if !send(stream.Replay(l)) {
					return
				}
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case line, ok := <-t.Lines():
				if !ok {
					return
				}
				ev, err := stream.Feed(line)
				if err != nil {
					sendError(ctx, errCh, &WatchError{Op: WatchOpParse, Path: path, Err: err})
					continue
				}
				if !send(ev) {
					return
				}
			case err, ok := <-t.Errors():
				if !ok {
					return
				}
				sendError(ctx, errCh, &WatchError{Op: WatchOpTail, Path: path, Err: err})
			}
		}
	}()

	return eventCh, errCh, nil
}
