package eelog

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/eelog/eelog-go/internal/parser"
)

// DefaultMaxFileSize is the default limit on the size of a log read in one pass.
const DefaultMaxFileSize = 512 * 1024 * 1024

// discardLogger returns a logger that discards all output.
var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// ParseOption configures a parse pass using the functional options pattern.
type ParseOption func(*parseConfig)

// parseConfig holds internal configuration for parsing.
type parseConfig struct {
	noiseFilter    bool
	utc            bool
	location       *time.Location // overrides utc when set
	ignoredVictims []string
	maxFileSize    int64
	logger         *slog.Logger
}

// defaultParseConfig returns a parseConfig with sensible defaults.
func defaultParseConfig() *parseConfig {
	return &parseConfig{
		noiseFilter: true,
		maxFileSize: DefaultMaxFileSize,
	}
}

// applyParseOptions applies functional options to a parseConfig.
func applyParseOptions(opts []ParseOption) *parseConfig {
	cfg := defaultParseConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// validate checks for invalid option combinations.
func (c *parseConfig) validate() error {
	if c.maxFileSize < 0 {
		return fmt.Errorf("max file size must be non-negative, got %d", c.maxFileSize)
	}
	return nil
}

func (c *parseConfig) log() *slog.Logger {
	if c.logger == nil {
		return discardLogger
	}
	return c.logger
}

// parserConfig builds the internal parser configuration. fallback is the
// start time used when the log has no anchor line.
func (c *parseConfig) parserConfig(fallback time.Time) parser.Config {
	loc := c.location
	if loc == nil {
		loc = parser.DisplayLocation(c.utc)
	}
	return parser.Config{
		NoiseFilter:    c.noiseFilter,
		Location:       loc,
		FallbackStart:  fallback,
		IgnoredVictims: c.ignoredVictims,
	}
}

// WithNoiseFilter drops warnings that do not mention "dmg" or "damage".
// Default: true.
func WithNoiseFilter(enabled bool) ParseOption {
	return func(c *parseConfig) {
		c.noiseFilter = enabled
	}
}

// WithUTC renders display times in UTC instead of local time.
// Default: false.
func WithUTC(utc bool) ParseOption {
	return func(c *parseConfig) {
		c.utc = utc
	}
}

// WithLocation renders display times in loc. It takes precedence over WithUTC.
// If loc is nil, this option has no effect.
func WithLocation(loc *time.Location) ParseOption {
	return func(c *parseConfig) {
		if loc != nil {
			c.location = loc
		}
	}
}

// WithIgnoredVictims excludes combat events for the named victims, in
// addition to RAZORFLIES which is always excluded.
func WithIgnoredVictims(victims ...string) ParseOption {
	return func(c *parseConfig) {
		c.ignoredVictims = append([]string(nil), victims...)
	}
}

// WithMaxFileSize limits how many bytes a single pass reads.
// Default is 512MB. Set to 0 for unlimited.
func WithMaxFileSize(max int64) ParseOption {
	return func(c *parseConfig) {
		c.maxFileSize = max
	}
}

// WithParseLogger sets a logger for debug output.
// If logger is nil, logging is disabled (default behavior).
func WithParseLogger(logger *slog.Logger) ParseOption {
	return func(c *parseConfig) {
		c.logger = logger
	}
}

// WatchOption configures a Watcher.
type WatchOption func(*watchConfig)

// watchConfig holds internal configuration for the watcher.
type watchConfig struct {
	pollInterval time.Duration
	debounce     time.Duration
	notify       bool
	logger       *slog.Logger
}

// defaultWatchConfig returns a watchConfig with sensible defaults.
func defaultWatchConfig() *watchConfig {
	return &watchConfig{
		pollInterval: 2 * time.Second,
		debounce:     250 * time.Millisecond,
		notify:       true,
	}
}

// applyWatchOptions applies functional options to a watchConfig.
func applyWatchOptions(opts []WatchOption) *watchConfig {
	cfg := defaultWatchConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// validate checks for invalid option combinations.
func (c *watchConfig) validate() error {
	if c.pollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %v", c.pollInterval)
	}
	if c.debounce < 0 {
		return fmt.Errorf("debounce must be non-negative, got %v", c.debounce)
	}
	return nil
}

// WithPollInterval sets how often the log's modification time is checked.
// Default: 2 seconds.
func WithPollInterval(interval time.Duration) WatchOption {
	return func(c *watchConfig) {
		c.pollInterval = interval
	}
}

// WithDebounce sets how long file-change notifications are coalesced
// before a refresh. Default: 250ms. Zero refreshes on every notification.
func WithDebounce(d time.Duration) WatchOption {
	return func(c *watchConfig) {
		c.debounce = d
	}
}

// WithNotify enables filesystem notifications in addition to polling.
// Default: true. Polling alone is used when notifications are unavailable.
func WithNotify(enabled bool) WatchOption {
	return func(c *watchConfig) {
		c.notify = enabled
	}
}

// WithLogger sets a logger for debug output.
// If logger is nil, logging is disabled (default behavior).
func WithLogger(logger *slog.Logger) WatchOption {
	return func(c *watchConfig) {
		c.logger = logger
	}
}

// FollowOption configures Follow.
type FollowOption func(*followConfig)

type followConfig struct {
	replay         bool
	includeRawLine bool
	poll           bool
	parse          []ParseOption
}

func applyFollowOptions(opts []FollowOption) *followConfig {
	cfg := &followConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// WithReplay emits events for lines already in the file before following.
// Default: false (existing lines only establish the player and time base).
func WithReplay(replay bool) FollowOption {
	return func(c *followConfig) {
		c.replay = replay
	}
}

// WithIncludeRawLine includes the original log line in LiveEvent.RawLine.
// Default: false.
func WithIncludeRawLine(include bool) FollowOption {
	return func(c *followConfig) {
		c.includeRawLine = include
	}
}

// WithPolling follows the file by stat polling instead of notifications.
func WithPolling(poll bool) FollowOption {
	return func(c *followConfig) {
		c.poll = poll
	}
}

// WithFollowParseOptions applies parse options (noise filter, UTC, ...) to Follow.
func WithFollowParseOptions(opts ...ParseOption) FollowOption {
	return func(c *followConfig) {
		c.parse = append(c.parse, opts...)
	}
}
