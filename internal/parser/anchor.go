package parser

import (
	"math"
	"time"

	"github.com/eelog/eelog-go/pkg/eelog/event"
)

// Anchor is the absolute time base of a log.
type Anchor struct {
	Player string
	Start  time.Time
	End    time.Time

	// Anchored is false when Start fell back to the file modification time.
	Anchored bool
}

// ResolveAnchor derives the player name, start time and end time from
// classified lines. When no anchor line exists, fallback (the file's
// modification time) becomes the start time.
func ResolveAnchor(lines []Line, fallback time.Time) Anchor {
	var a Anchor

	for _, l := range lines {
		if l.Kind == LoginLine {
			a.Player = l.Player
			break
		}
	}

	a.Start = fallback
	for _, l := range lines {
		if l.Kind == AnchorLine {
			a.Start = l.WallClock.Add(-offsetDuration(l.Offset))
			a.Anchored = true
			break
		}
	}

	a.End = a.Start
	for i := len(lines) - 1; i >= 0; i-- {
		if lines[i].HasOffset {
			a.End = a.At(lines[i].Offset)
			break
		}
	}

	return a
}

// At returns the absolute instant of an offset.
func (a Anchor) At(offset float64) time.Time {
	return a.Start.Add(offsetDuration(offset))
}

// DisplayTime renders an offset as a time of day in loc.
func (a Anchor) DisplayTime(offset float64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return a.At(offset).In(loc).Format(event.TimeLayout)
}

func offsetDuration(offset float64) time.Duration {
	return time.Duration(math.Round(offset * float64(time.Second)))
}
