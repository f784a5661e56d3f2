package parser

import (
	"strings"

	"github.com/eelog/eelog-go/pkg/eelog/event"
)

// Stream interprets lines one at a time as a log grows.
//
// Unlike Parse, a Stream cannot see the future: a warning is suppressed
// only when a combat event at its offset was seen before it, and the time
// base switches from the fallback to the anchor line once that line arrives.
type Stream struct {
	cfg     Config
	anchor  Anchor
	claimed offsetSet
}

// NewStream creates a Stream primed with the lines already in the file.
func NewStream(cfg Config, history []Line) *Stream {
	s := &Stream{
		cfg:     cfg,
		anchor:  ResolveAnchor(history, cfg.FallbackStart),
		claimed: make(offsetSet),
	}
	for _, l := range history {
		if l.Kind == CombatLine {
			s.claimed[l.Offset] = struct{}{}
		}
	}
	return s
}

// Anchor returns the current time base.
func (s *Stream) Anchor() Anchor {
	return s.anchor
}

// Feed classifies a newly appended line and updates the stream state.
//
// Returns:
//   - (*LiveEvent, nil): the line produced an event
//   - (nil, nil): the line produced no event
//   - (nil, error): the line is malformed
func (s *Stream) Feed(raw string) (*event.LiveEvent, error) {
	l, err := Classify(raw)
	if err != nil {
		return nil, err
	}

	switch l.Kind {
	case LoginLine:
		if s.anchor.Player == "" {
			s.anchor.Player = l.Player
		}
	case AnchorLine:
		if !s.anchor.Anchored {
			s.anchor.Start = l.WallClock.Add(-offsetDuration(l.Offset))
			s.anchor.Anchored = true
		}
	case CombatLine:
		s.claimed[l.Offset] = struct{}{}
	}
	if l.HasOffset {
		s.anchor.End = s.anchor.At(l.Offset)
	}

	ev := s.Replay(l)
	if ev != nil {
		ev.RawLine = strings.TrimRight(raw, "\r")
	}
	return ev, nil
}

// Replay renders an event for a line without changing the stream state.
// It is used for lines that were already present when the stream was created.
func (s *Stream) Replay(l Line) *event.LiveEvent {
	switch l.Kind {
	case CombatLine:
		if s.cfg.ignoresVictim(l.Victim) {
			return nil
		}
		ce := NewCombatEvent(l, s.anchor.DisplayTime(l.Offset, s.cfg.Location))
		return &event.LiveEvent{Kind: event.LiveCombat, Player: s.anchor.Player, Combat: &ce}
	case WarningLine:
		if s.claimed.has(l.Offset) || !KeepWarning(l.Text, s.cfg.NoiseFilter) {
			return nil
		}
		wc := NewWarningChild(l.Offset, s.anchor.DisplayTime(l.Offset, s.cfg.Location), strings.TrimSpace(l.Text))
		return &event.LiveEvent{Kind: event.LiveWarning, Player: s.anchor.Player, Warning: &wc}
	}
	return nil
}
