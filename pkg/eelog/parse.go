package eelog

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/eelog/eelog-go/internal/logfinder"
	"github.com/eelog/eelog-go/internal/parser"
	"github.com/eelog/eelog-go/internal/safefile"
	"github.com/eelog/eelog-go/pkg/eelog/event"
)

// Type aliases for the data model.
type (
	Snapshot     = event.Snapshot
	CombatEvent  = event.CombatEvent
	WarningGroup = event.WarningGroup
	WarningChild = event.WarningChild
	LiveEvent    = event.LiveEvent
	LiveKind     = event.LiveKind
)

// Live event kinds.
const (
	LiveCombat  = event.LiveCombat
	LiveWarning = event.LiveWarning
)

// ParseFile reads the whole log at path and returns a fresh snapshot.
//
// The file is opened read-only and closed before returning. If it cannot be
// opened or read, the error is an *AccessError. Lines that match no grammar
// or carry malformed fields are skipped and never fail the pass. When the log
// has no time-anchor line, the file's modification time is the start time.
//
// Example:
//
//	snap, err := eelog.ParseFile(path, eelog.WithUTC(true))
//	if errors.Is(err, eelog.ErrAccess) {
//	    log.Printf("game still holds the log: %v", err)
//	}
func ParseFile(path string, opts ...ParseOption) (*Snapshot, error) {
	cfg := applyParseOptions(opts)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return parseFile(path, cfg)
}

func parseFile(path string, cfg *parseConfig) (*Snapshot, error) {
	data, info, err := safefile.ReadRegular(path, cfg.maxFileSize)
	if err != nil {
		return nil, &AccessError{Path: path, Err: err}
	}

	snap := parseBytes(data, info.ModTime(), cfg)
	snap.Path = path
	return snap, nil
}

// Parse parses log contents read from r. modTime stands in for the file
// modification time when the log has no time-anchor line.
func Parse(r io.Reader, modTime time.Time, opts ...ParseOption) (*Snapshot, error) {
	cfg := applyParseOptions(opts)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	var lr io.Reader = r
	if cfg.maxFileSize > 0 {
		lr = io.LimitReader(r, cfg.maxFileSize+1)
	}
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}
	if cfg.maxFileSize > 0 && int64(len(data)) > cfg.maxFileSize {
		return nil, fmt.Errorf("%w: more than %d bytes", safefile.ErrTooLarge, cfg.maxFileSize)
	}

	return parseBytes(data, modTime, cfg), nil
}

func parseBytes(data []byte, modTime time.Time, cfg *parseConfig) *Snapshot {
	snap := parser.Parse(string(data), cfg.parserConfig(modTime))
	snap.ModTime = modTime

	log := cfg.log()
	if !snap.Anchored {
		log.Debug("no time anchor line, using modification time", "start", snap.Start)
	}
	if snap.SkippedLines > 0 {
		log.Debug("skipped malformed lines", "count", snap.SkippedLines)
	}
	return snap
}

// LocateLog resolves the log file path.
//
// Priority:
//  1. explicit (if non-empty)
//  2. EELOG_PATH environment variable
//  3. %LOCALAPPDATA%\Warframe\EE.log
//
// A missing LOCALAPPDATA is reported as a *ConfigError.
func LocateLog(explicit string) (string, error) {
	path, err := logfinder.FindLogFile(explicit)
	if errors.Is(err, logfinder.ErrEnvNotSet) {
		return "", &ConfigError{Key: "LOCALAPPDATA", Err: err}
	}
	return path, err
}
