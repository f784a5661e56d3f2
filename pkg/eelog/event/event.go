// Package event defines the structured records produced by parsing a
// Warframe EE.log file.
//
// All values in this package are created once per parse pass and are never
// mutated afterwards. Staleness is handled by replacing a whole Snapshot.
package event

import "time"

// TimeLayout is the time-of-day layout used for display times.
const TimeLayout = "15:04:05"

// Snapshot is the immutable result of one parse pass over a log file.
type Snapshot struct {
	// Path is the file the snapshot was parsed from (empty for in-memory input).
	Path string `json:"path,omitempty"`

	// ModTime is the file modification time observed when the pass started.
	ModTime time.Time `json:"mod_time"`

	// Player is the logged-in player name, or empty if no login line exists.
	Player string `json:"player"`

	// Start is the absolute instant all offsets are relative to.
	Start time.Time `json:"start"`

	// End is Start plus the last observed offset (or Start if none).
	End time.Time `json:"end"`

	// Anchored reports whether Start came from a time-anchor line rather than
	// the modification-time fallback.
	Anchored bool `json:"anchored"`

	// UTC reports whether display times were rendered in UTC.
	UTC bool `json:"utc"`

	Combat   []CombatEvent  `json:"combat"`
	Warnings []WarningGroup `json:"warnings"`

	// SkippedLines counts lines that looked like a known grammar but carried
	// a malformed numeric field.
	SkippedLines int `json:"skipped_lines,omitempty"`
}

// CombatEvent is one victim being downed or killed.
type CombatEvent struct {
	Offset  float64 `json:"offset"`
	Time    string  `json:"time"`
	Victim  string  `json:"victim"`
	State   string  `json:"state"`
	Info    string  `json:"info"`
	Health  string  `json:"health"`
	Damage  string  `json:"damage"`
	Value   float64 `json:"value"`
	Source  string  `json:"source"`
	Message string  `json:"message"`
}

// WarningGroup clusters the warning lines sharing one offset.
type WarningGroup struct {
	Offset    float64        `json:"offset"`
	Time      string         `json:"time"`
	Count     int            `json:"count"`
	MaxDamage float64        `json:"max_damage"`
	Children  []WarningChild `json:"children"`
}

// Messages returns the child messages in encounter order.
func (g WarningGroup) Messages() []string {
	msgs := make([]string, len(g.Children))
	for i, c := range g.Children {
		msgs[i] = c.Message
	}
	return msgs
}

// WarningChild is a single warning line inside a group.
type WarningChild struct {
	Offset  float64 `json:"offset"`
	Time    string  `json:"time"`
	Message string  `json:"message"`

	// Value is the parsed "high dmg" figure, nil when the line has none.
	Value *float64 `json:"value,omitempty"`

	// Damage is Value formatted in scientific notation, or empty.
	Damage string `json:"damage"`
}

// LiveKind identifies the payload of a LiveEvent.
type LiveKind string

const (
	LiveCombat  LiveKind = "combat"
	LiveWarning LiveKind = "warning"
)

// LiveEvent is emitted while following a log as it is appended to.
// Exactly one of Combat or Warning is set, according to Kind.
type LiveEvent struct {
	Kind    LiveKind      `json:"kind"`
	Player  string        `json:"player,omitempty"`
	Combat  *CombatEvent  `json:"combat,omitempty"`
	Warning *WarningChild `json:"warning,omitempty"`
	RawLine string        `json:"raw_line,omitempty"`
}
