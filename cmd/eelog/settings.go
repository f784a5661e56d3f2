package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/eelog/eelog-go/internal/config"
	"github.com/eelog/eelog-go/pkg/eelog"
)

// settings is the merged result of defaults, the config file and flags.
type settings struct {
	logPath      string
	utc          bool
	noiseFilter  bool
	ignored      []string
	maxFileSize  int64
	pollInterval time.Duration
	debounce     time.Duration
}

func defaultSettings() settings {
	return settings{
		noiseFilter:  true,
		maxFileSize:  eelog.DefaultMaxFileSize,
		pollInterval: 2 * time.Second,
		debounce:     250 * time.Millisecond,
	}
}

// applyFile overlays the values the config file sets.
func (s *settings) applyFile(f *config.File) {
	if f.LogPath != "" {
		s.logPath = f.LogPath
	}
	if f.UTC != nil {
		s.utc = *f.UTC
	}
	if f.NoiseFilter != nil {
		s.noiseFilter = *f.NoiseFilter
	}
	s.ignored = append(s.ignored, f.IgnoredVictims...)
	if f.MaxFileSize != nil {
		s.maxFileSize = *f.MaxFileSize
	}
	if f.PollInterval != nil {
		s.pollInterval = f.PollInterval.Std()
	}
	if f.Debounce != nil {
		s.debounce = f.Debounce.Std()
	}
}

// loadSettings merges defaults, the --config file and the flags set on cmd,
// then resolves the log path.
func loadSettings(cmd *cobra.Command) (settings, error) {
	s := defaultSettings()
	if configPath != "" {
		f, err := config.Load(configPath)
		if err != nil {
			return s, fmt.Errorf("config %s: %w", configPath, err)
		}
		s.applyFile(f)
	}

	flags := cmd.Flags()
	if logPath != "" {
		s.logPath = logPath
	}
	if flags.Changed("utc") {
		s.utc = useUTC
	}
	if flags.Changed("all-warnings") {
		s.noiseFilter = !allWarnings
	}
	if flags.Changed("interval") {
		s.pollInterval = pollInterval
	}
	s.ignored = append(s.ignored, ignored...)

	path, err := eelog.LocateLog(s.logPath)
	if err != nil {
		return s, err
	}
	s.logPath = path
	return s, nil
}

func (s settings) parseOptions(log *slog.Logger) []eelog.ParseOption {
	return []eelog.ParseOption{
		eelog.WithUTC(s.utc),
		eelog.WithNoiseFilter(s.noiseFilter),
		eelog.WithIgnoredVictims(s.ignored...),
		eelog.WithMaxFileSize(s.maxFileSize),
		eelog.WithParseLogger(log),
	}
}

func (s settings) watchOptions(log *slog.Logger) []eelog.WatchOption {
	return []eelog.WatchOption{
		eelog.WithPollInterval(s.pollInterval),
		eelog.WithDebounce(s.debounce),
		eelog.WithLogger(log),
	}
}
