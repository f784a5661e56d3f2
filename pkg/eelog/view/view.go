// Package view derives presentation rows from a snapshot.
//
// Combat and Warnings are pure functions of their input: they never modify
// the snapshot, and the same arguments always produce the same rows.
// Table holds the filter and sort state a presentation layer needs between
// calls.
package view

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/eelog/eelog-go/pkg/eelog/event"
)

// previewLimit is the number of messages shown in a warning row preview.
const previewLimit = 3

// SortKey names a column to sort by.
type SortKey string

// Sort keys. Keys that do not apply to a category order every row as zero,
// which leaves the input order unchanged.
const (
	SortNone      SortKey = ""
	SortTarget    SortKey = "target"
	SortHealth    SortKey = "health"
	SortSource    SortKey = "source"
	SortDamage    SortKey = "damage"
	SortValue     SortKey = "value"
	SortTime      SortKey = "time"
	SortMaxDamage SortKey = "max_damage"
	SortCount     SortKey = "count"
	SortMessages  SortKey = "messages"
)

var sortKeyAliases = map[string]SortKey{
	"":           SortNone,
	"none":       SortNone,
	"target":     SortTarget,
	"victim":     SortTarget,
	"health":     SortHealth,
	"source":     SortSource,
	"damage":     SortDamage,
	"value":      SortValue,
	"time":       SortTime,
	"max_damage": SortMaxDamage,
	"maxdamage":  SortMaxDamage,
	"count":      SortCount,
	"messages":   SortMessages,
}

// ParseSortKey resolves a column name, case-insensitively.
func ParseSortKey(s string) (SortKey, error) {
	k, ok := sortKeyAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return SortNone, fmt.Errorf("unknown sort key %q", s)
	}
	return k, nil
}

// Sort is an active sort column and direction.
// The zero value keeps rows in parse order.
type Sort struct {
	Key  SortKey
	Desc bool
}

// sortValue is a row's value for one sort key. Numeric columns compare as
// numbers and text columns as strings; a missing column is the number 0.
type sortValue struct {
	num   float64
	str   string
	isStr bool
}

func compareValues(a, b sortValue) int {
	if a.isStr && b.isStr {
		return strings.Compare(a.str, b.str)
	}
	return cmp.Compare(a.num, b.num)
}

// sortRows stably sorts rows by key. Equal keys keep their input order in
// both directions.
func sortRows[R any](rows []R, s Sort, key func(R, SortKey) sortValue) {
	if s.Key == SortNone {
		return
	}
	slices.SortStableFunc(rows, func(a, b R) int {
		c := compareValues(key(a, s.Key), key(b, s.Key))
		if s.Desc {
			return -c
		}
		return c
	})
}

// CombatRow is one row of the combat table.
type CombatRow struct {
	Victim string `json:"victim"`
	Health string `json:"health"`
	Source string `json:"source"`
	Damage string `json:"damage"`
	Time   string `json:"time"`

	Offset  float64 `json:"offset"`
	Value   float64 `json:"value"`
	Message string  `json:"message"`
}

func newCombatRow(ev event.CombatEvent) CombatRow {
	return CombatRow{
		Victim:  ev.Victim,
		Health:  ev.Health,
		Source:  ev.Source,
		Damage:  ev.Damage,
		Time:    ev.Time,
		Offset:  ev.Offset,
		Value:   ev.Value,
		Message: ev.Message,
	}
}

func (r CombatRow) matches(filter string) bool {
	for _, field := range []string{r.Victim, r.Health, r.Source, r.Damage} {
		if strings.Contains(strings.ToLower(field), filter) {
			return true
		}
	}
	return false
}

func combatSortValue(r CombatRow, k SortKey) sortValue {
	switch k {
	case SortDamage, SortValue:
		return sortValue{num: r.Value}
	case SortTime:
		return sortValue{num: r.Offset}
	case SortTarget:
		return sortValue{str: r.Victim, isStr: true}
	case SortHealth:
		return sortValue{str: r.Health, isStr: true}
	case SortSource:
		return sortValue{str: r.Source, isStr: true}
	}
	return sortValue{}
}

// Combat filters and sorts combat events into rows.
//
// filter matches case-insensitively against the victim, health, source and
// damage columns; an empty filter matches every event.
func Combat(events []event.CombatEvent, filter string, s Sort) []CombatRow {
	filter = strings.ToLower(filter)
	rows := make([]CombatRow, 0, len(events))
	for _, ev := range events {
		r := newCombatRow(ev)
		if filter == "" || r.matches(filter) {
			rows = append(rows, r)
		}
	}
	sortRows(rows, s, combatSortValue)
	return rows
}

// WarningRow is one collapsed warning group.
type WarningRow struct {
	Offset    float64 `json:"offset"`
	Time      string  `json:"time"`
	MaxDamage string  `json:"max_damage"`
	Count     int     `json:"count"`
	Preview   string  `json:"preview"`

	maxDamage float64
	children  []event.WarningChild
}

// ChildRow is one warning line inside an expanded group.
type ChildRow struct {
	Time    string `json:"time"`
	Damage  string `json:"damage"`
	Message string `json:"message"`
}

func newWarningRow(g event.WarningGroup) WarningRow {
	return WarningRow{
		Offset:    g.Offset,
		Time:      g.Time,
		MaxDamage: fmt.Sprintf("%.2e", g.MaxDamage),
		Count:     g.Count,
		Preview:   Preview(g.Messages()),
		maxDamage: g.MaxDamage,
		children:  g.Children,
	}
}

// Children returns the rows revealed when the group is expanded.
func (r WarningRow) Children() []ChildRow {
	rows := make([]ChildRow, len(r.children))
	for i, c := range r.children {
		rows[i] = ChildRow{Time: c.Time, Damage: c.Damage, Message: c.Message}
	}
	return rows
}

func (r WarningRow) matches(filter string) bool {
	for _, c := range r.children {
		if strings.Contains(strings.ToLower(c.Message), filter) {
			return true
		}
	}
	return false
}

func warningSortValue(r WarningRow, k SortKey) sortValue {
	switch k {
	case SortMaxDamage, SortDamage:
		return sortValue{num: r.maxDamage}
	case SortCount:
		return sortValue{num: float64(r.Count)}
	case SortTime:
		return sortValue{num: r.Offset}
	case SortMessages:
		return sortValue{str: r.Preview, isStr: true}
	}
	return sortValue{}
}

// Warnings filters and sorts warning groups into rows.
//
// filter matches case-insensitively against any message in the group; an
// empty filter matches every group.
func Warnings(groups []event.WarningGroup, filter string, s Sort) []WarningRow {
	filter = strings.ToLower(filter)
	rows := make([]WarningRow, 0, len(groups))
	for _, g := range groups {
		r := newWarningRow(g)
		if filter == "" || r.matches(filter) {
			rows = append(rows, r)
		}
	}
	sortRows(rows, s, warningSortValue)
	return rows
}

// Preview joins the first three messages with "; ", appending "..." when
// there are more.
func Preview(messages []string) string {
	if len(messages) <= previewLimit {
		return strings.Join(messages, "; ")
	}
	return strings.Join(messages[:previewLimit], "; ") + "..."
}
