package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/eelog/eelog-go/pkg/eelog/event"
)

// warningBuckets groups warning texts by offset in first-seen order.
type warningBuckets struct {
	order  []float64
	byOffs map[float64][]string
}

func (b *warningBuckets) add(off float64, text string) {
	if b.byOffs == nil {
		b.byOffs = make(map[float64][]string)
	}
	if _, ok := b.byOffs[off]; !ok {
		b.order = append(b.order, off)
	}
	b.byOffs[off] = append(b.byOffs[off], text)
}

// aggregateWarnings groups surviving warning lines by offset and drops groups
// whose offset was claimed by a combat event.
func aggregateWarnings(lines []Line, claimed offsetSet, a Anchor, cfg Config) []event.WarningGroup {
	var buckets warningBuckets
	for _, l := range lines {
		if l.Kind != WarningLine {
			continue
		}
		if !KeepWarning(l.Text, cfg.NoiseFilter) {
			continue
		}
		buckets.add(l.Offset, strings.TrimSpace(l.Text))
	}

	var groups []event.WarningGroup
	for _, off := range buckets.order {
		if claimed.has(off) {
			continue
		}
		t := a.DisplayTime(off, cfg.Location)
		g := event.WarningGroup{
			Offset:   off,
			Time:     t,
			Children: make([]event.WarningChild, 0, len(buckets.byOffs[off])),
		}
		for _, text := range buckets.byOffs[off] {
			child := NewWarningChild(off, t, text)
			if child.Value != nil && *child.Value > g.MaxDamage {
				g.MaxDamage = *child.Value
			}
			g.Children = append(g.Children, child)
		}
		g.Count = len(g.Children)
		groups = append(groups, g)
	}

	return groups
}

// KeepWarning reports whether a warning survives filtering. "Cannot create"
// warnings are always dropped; with noiseFilter set, so is anything that
// does not mention damage.
func KeepWarning(text string, noiseFilter bool) bool {
	if noiseFilter && !noisePattern.MatchString(text) {
		return false
	}
	return !strings.HasPrefix(strings.TrimSpace(text), spammyWarningPrefix)
}

// NewWarningChild builds a child record, extracting the "high dmg" figure if any.
func NewWarningChild(off float64, displayTime, text string) event.WarningChild {
	child := event.WarningChild{
		Offset:  off,
		Time:    displayTime,
		Message: text,
	}
	if m := highDamagePattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			child.Value = &v
			child.Damage = FormatDamage(v)
		}
	}
	return child
}

// FormatDamage renders a damage figure in scientific notation ("1.20e+04").
func FormatDamage(v float64) string {
	return fmt.Sprintf("%.2e", v)
}
