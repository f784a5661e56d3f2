// Package parser turns Warframe EE.log text into a structured snapshot of
// combat events and grouped damage warnings.
package parser

import (
	"strings"
	"time"

	"github.com/eelog/eelog-go/pkg/eelog/event"
)

// Config controls a parse pass.
type Config struct {
	// NoiseFilter drops warnings that do not mention damage.
	NoiseFilter bool

	// Location is where display times are rendered (nil means time.Local).
	Location *time.Location

	// FallbackStart is used as the start time when the log has no anchor line.
	FallbackStart time.Time

	// IgnoredVictims are excluded from combat output in addition to RAZORFLIES.
	IgnoredVictims []string
}

func (c Config) ignoresVictim(victim string) bool {
	if victim == RazorfliesVictim {
		return true
	}
	for _, v := range c.IgnoredVictims {
		if v == victim {
			return true
		}
	}
	return false
}

// Parse re-derives a complete snapshot from the full log contents.
// Lines that match no grammar are ignored and malformed lines are counted in
// Snapshot.SkippedLines; neither aborts the pass.
func Parse(contents string, cfg Config) *event.Snapshot {
	lines, skipped := ClassifyAll(contents)
	a := ResolveAnchor(lines, cfg.FallbackStart)
	combat, claimed := extractCombat(lines, a, cfg)
	warnings := aggregateWarnings(lines, claimed, a, cfg)

	return &event.Snapshot{
		Player:       a.Player,
		Start:        a.Start,
		End:          a.End,
		Anchored:     a.Anchored,
		UTC:          cfg.Location == time.UTC,
		Combat:       combat,
		Warnings:     warnings,
		SkippedLines: skipped,
	}
}

// ClassifyAll classifies every line of contents and counts malformed ones.
func ClassifyAll(contents string) ([]Line, int) {
	// Invalid UTF-8 is dropped rather than failing the pass
	contents = strings.ToValidUTF8(contents, "")

	raw := strings.Split(contents, "\n")
	lines := make([]Line, 0, len(raw))
	skipped := 0
	for _, r := range raw {
		l, err := Classify(r)
		if err != nil {
			skipped++
		}
		lines = append(lines, l)
	}
	return lines, skipped
}
