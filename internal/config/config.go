// Package config loads the optional eelog YAML configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eelog/eelog-go/internal/safefile"
)

const (
	// MaxFileSize is the maximum allowed size for a configuration file (64KB).
	MaxFileSize = 64 * 1024

	// SupportedVersion is the currently supported configuration format version.
	SupportedVersion = 1

	// MinPollInterval is the shortest accepted poll interval.
	MinPollInterval = 100 * time.Millisecond
)

// File is the on-disk configuration.
//
// Pointer fields distinguish "not set" from an explicit zero or false, so
// command-line defaults only yield to values the file actually sets.
type File struct {
	Version        int       `yaml:"version"`
	LogPath        string    `yaml:"log_path"`
	PollInterval   *Duration `yaml:"poll_interval"`
	Debounce       *Duration `yaml:"debounce"`
	UTC            *bool     `yaml:"utc"`
	NoiseFilter    *bool     `yaml:"noise_filter"`
	IgnoredVictims []string  `yaml:"ignored_victims"`
	MaxFileSize    *int64    `yaml:"max_file_size"`
}

// Duration is a time.Duration written as a Go duration string ("2s", "250ms").
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a string such as \"2s\"", value.Line)
	}
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// ValidationError reports a configuration value that is out of range.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// sanitizePathError removes the path from os.PathError so messages don't
// repeat the file system location.
func sanitizePathError(err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return fmt.Errorf("%s: %w", pathErr.Op, pathErr.Err)
	}
	return err
}

// Load reads and validates a configuration file.
// FIFOs, devices and files larger than MaxFileSize are rejected.
//
// Example:
//
//	cfg, err := config.Load("eelog.yaml")
//	if err != nil {
//	    log.Fatalf("failed to load config: %v", err)
//	}
func Load(path string) (*File, error) {
	data, _, err := safefile.ReadRegular(path, MaxFileSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", sanitizePathError(err))
	}
	return LoadBytes(data)
}

// LoadBytes parses and validates configuration from a byte slice.
func LoadBytes(data []byte) (*File, error) {
	if len(data) == 0 {
		return nil, errors.New("config file is empty")
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", len(data), MaxFileSize)
	}

	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks the version and value ranges.
func (f *File) Validate() error {
	if f.Version != SupportedVersion {
		return &ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (only version %d is supported)", f.Version, SupportedVersion),
		}
	}
	if f.PollInterval != nil && f.PollInterval.Std() < MinPollInterval {
		return &ValidationError{
			Field:   "poll_interval",
			Message: fmt.Sprintf("must be at least %v, got %v", MinPollInterval, f.PollInterval.Std()),
		}
	}
	if f.Debounce != nil && f.Debounce.Std() < 0 {
		return &ValidationError{
			Field:   "debounce",
			Message: fmt.Sprintf("must be non-negative, got %v", f.Debounce.Std()),
		}
	}
	if f.MaxFileSize != nil && *f.MaxFileSize < 0 {
		return &ValidationError{
			Field:   "max_file_size",
			Message: fmt.Sprintf("must be non-negative, got %d", *f.MaxFileSize),
		}
	}
	for i, v := range f.IgnoredVictims {
		if strings.TrimSpace(v) == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("ignored_victims[%d]", i),
				Message: "victim name is empty",
			}
		}
	}
	return nil
}
