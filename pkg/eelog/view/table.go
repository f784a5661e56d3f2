package view

import (
	"fmt"
	"time"

	"github.com/eelog/eelog-go/pkg/eelog/event"
)

// SummaryLayout is the layout of the start and end times in Summary.
const SummaryLayout = "2006-01-02 15:04:05"

// Table is the filter and sort state of one presentation over a snapshot.
//
// Combat and warning rows each keep their own filter and sort. Loading a
// snapshot resets both, so state never carries over to an unrelated file.
// A Table is not safe for concurrent use.
type Table struct {
	snap     *event.Snapshot
	combat   tableState
	warnings tableState
}

type tableState struct {
	filter string
	sort   Sort
}

// NewTable creates a Table showing snap, which may be nil.
func NewTable(snap *event.Snapshot) *Table {
	return &Table{snap: snap}
}

// Snapshot returns the snapshot being shown.
func (t *Table) Snapshot() *event.Snapshot {
	return t.snap
}

// SetSnapshot replaces the snapshot and resets every filter and sort.
func (t *Table) SetSnapshot(snap *event.Snapshot) {
	t.snap = snap
	t.combat = tableState{}
	t.warnings = tableState{}
}

// SetCombatFilter sets the combat row filter.
func (t *Table) SetCombatFilter(filter string) {
	t.combat.filter = filter
}

// SetWarningFilter sets the warning row filter.
func (t *Table) SetWarningFilter(filter string) {
	t.warnings.filter = filter
}

// SortCombat sets the combat row sort.
func (t *Table) SortCombat(s Sort) {
	t.combat.sort = s
}

// SortWarnings sets the warning row sort.
func (t *Table) SortWarnings(s Sort) {
	t.warnings.sort = s
}

// ClearFilter resets the filters and sorts of both row kinds.
func (t *Table) ClearFilter() {
	t.combat = tableState{}
	t.warnings = tableState{}
}

// CombatFilter returns the active combat filter and sort.
func (t *Table) CombatFilter() (string, Sort) {
	return t.combat.filter, t.combat.sort
}

// WarningFilter returns the active warning filter and sort.
func (t *Table) WarningFilter() (string, Sort) {
	return t.warnings.filter, t.warnings.sort
}

// CombatRows returns the combat rows under the active filter and sort.
func (t *Table) CombatRows() []CombatRow {
	if t.snap == nil {
		return nil
	}
	return Combat(t.snap.Combat, t.combat.filter, t.combat.sort)
}

// WarningRows returns the warning rows under the active filter and sort.
func (t *Table) WarningRows() []WarningRow {
	if t.snap == nil {
		return nil
	}
	return Warnings(t.snap.Warnings, t.warnings.filter, t.warnings.sort)
}

// Summary returns the one-line header for the snapshot being shown.
func (t *Table) Summary() string {
	return Summary(t.snap, nil)
}

// Summary renders "Player: <name> | Start: <time> | End: <time>".
//
// Times are rendered in loc; a nil loc means UTC for snapshots parsed with
// UTC display times and local time otherwise, so a UTC snapshot's header
// agrees with its event times instead of always using local time.
// Missing values render as N/A.
func Summary(snap *event.Snapshot, loc *time.Location) string {
	if snap == nil {
		return "Player: N/A | Start: N/A | End: N/A"
	}
	if loc == nil {
		loc = time.Local
		if snap.UTC {
			loc = time.UTC
		}
	}
	player := snap.Player
	if player == "" {
		player = "N/A"
	}
	return fmt.Sprintf("Player: %s | Start: %s | End: %s",
		player, formatInstant(snap.Start, loc), formatInstant(snap.End, loc))
}

func formatInstant(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.In(loc).Format(SummaryLayout)
}
