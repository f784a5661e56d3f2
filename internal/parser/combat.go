package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/eelog/eelog-go/pkg/eelog/event"
)

// offsetSet records offsets claimed by combat events.
type offsetSet map[float64]struct{}

func (s offsetSet) has(off float64) bool {
	_, ok := s[off]
	return ok
}

// extractCombat turns combat lines into events. Every combat line's offset
// is claimed, including lines whose victim is ignored.
func extractCombat(lines []Line, a Anchor, cfg Config) ([]event.CombatEvent, offsetSet) {
	var events []event.CombatEvent
	claimed := make(offsetSet)

	for _, l := range lines {
		if l.Kind != CombatLine {
			continue
		}
		claimed[l.Offset] = struct{}{}
		if cfg.ignoresVictim(l.Victim) {
			continue
		}
		events = append(events, NewCombatEvent(l, a.DisplayTime(l.Offset, cfg.Location)))
	}

	return events, claimed
}

// NewCombatEvent builds a CombatEvent from a classified combat line.
// displayTime is the pre-rendered time of day for the line's offset.
func NewCombatEvent(l Line, displayTime string) event.CombatEvent {
	health, damage := splitDamageInfo(l.Info)

	source := strings.TrimSpace(l.Source)
	if source == "" {
		source = unknownSource
	}

	var msg string
	if l.State == downedState {
		msg = fmt.Sprintf("%s - <%s> downed at %s health %s",
			displayTime, l.Victim, health, strings.ReplaceAll(source, "from a", "by a"))
	} else {
		msg = fmt.Sprintf("%s - <%s> %s by %s damage at %s health %s",
			displayTime, l.Victim, l.State, damage, health, source)
	}

	return event.CombatEvent{
		Offset:  l.Offset,
		Time:    displayTime,
		Victim:  l.Victim,
		State:   l.State,
		Info:    l.Info,
		Health:  health,
		Damage:  damage,
		Value:   numericValue(damage),
		Source:  source,
		Message: msg,
	}
}

// splitDamageInfo splits "health / damage". Anything else is all damage.
func splitDamageInfo(info string) (health, damage string) {
	parts := strings.Split(info, healthDamageSeparator)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return unknownHealth, info
}

// numericValue parses s only when it is digits with at most one decimal point.
func numericValue(s string) float64 {
	digits, dots := 0, 0
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '.':
			dots++
		default:
			return 0
		}
	}
	if digits == 0 || dots > 1 {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// DisplayLocation returns the location display times are rendered in.
func DisplayLocation(utc bool) *time.Location {
	if utc {
		return time.UTC
	}
	return time.Local
}
