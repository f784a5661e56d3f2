package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eelog/eelog-go/pkg/eelog/event"
)

func combatFixture() []event.CombatEvent {
	return []event.CombatEvent{
		{Offset: 1, Time: "10:00:01", Victim: "Lotus", Health: "45.0", Damage: "0.0", Value: 0, Source: "from a Grineer Lancer"},
		{Offset: 2, Time: "10:00:02", Victim: "Tenno", Health: "150", Damage: "1200.5", Value: 1200.5, Source: "from a Grineer Heavy Gunner"},
		{Offset: 3, Time: "10:00:03", Victim: "Ash", Health: "unknown", Damage: "n/a", Value: 0, Source: "from an unknown source"},
		{Offset: 4, Time: "10:00:04", Victim: "Ember", Health: "10", Damage: "99", Value: 99, Source: "Corpus Tech"},
	}
}

func victims(rows []CombatRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Victim
	}
	return out
}

func ptr(f float64) *float64 { return &f }

func warningFixture() []event.WarningGroup {
	return []event.WarningGroup{
		{Offset: 30, Time: "10:00:30", Count: 2, MaxDamage: 12000, Children: []event.WarningChild{
			{Offset: 30, Time: "10:00:30", Message: "Unit took high dmg: 1.2e4", Value: ptr(12000), Damage: "1.20e+04"},
			{Offset: 30, Time: "10:00:30", Message: "Secondary damage event"},
		}},
		{Offset: 10, Time: "10:00:10", Count: 1, MaxDamage: 0, Children: []event.WarningChild{
			{Offset: 10, Time: "10:00:10", Message: "Shield damage"},
		}},
		{Offset: 20, Time: "10:00:20", Count: 4, MaxDamage: 12000, Children: []event.WarningChild{
			{Message: "damage a"}, {Message: "damage b"}, {Message: "damage c"}, {Message: "damage d"},
		}},
	}
}

func TestCombat_NoSortKeepsParseOrder(t *testing.T) {
	rows := Combat(combatFixture(), "", Sort{})
	assert.Equal(t, []string{"Lotus", "Tenno", "Ash", "Ember"}, victims(rows))
}

func TestCombat_Filter(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		want   []string
	}{
		{"empty matches all", "", []string{"Lotus", "Tenno", "Ash", "Ember"}},
		{"victim case-insensitive", "tENNo", []string{"Tenno"}},
		{"source", "grineer", []string{"Lotus", "Tenno"}},
		{"health", "unknown", []string{"Ash"}},
		{"damage string", "1200", []string{"Tenno"}},
		{"time is not a match field", "10:00", []string{}},
		{"no match", "stalker", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, victims(Combat(combatFixture(), tt.filter, Sort{})))
		})
	}
}

func TestCombat_Sort(t *testing.T) {
	tests := []struct {
		name string
		sort Sort
		want []string
	}{
		{"damage ascending, ties stable", Sort{Key: SortDamage}, []string{"Lotus", "Ash", "Ember", "Tenno"}},
		{"damage descending, ties stable", Sort{Key: SortDamage, Desc: true}, []string{"Tenno", "Ember", "Lotus", "Ash"}},
		{"target", Sort{Key: SortTarget}, []string{"Ash", "Ember", "Lotus", "Tenno"}},
		{"time descending", Sort{Key: SortTime, Desc: true}, []string{"Ember", "Ash", "Tenno", "Lotus"}},
		{"source", Sort{Key: SortSource}, []string{"Ember", "Tenno", "Lotus", "Ash"}},
		{"key absent for combat rows", Sort{Key: SortCount, Desc: true}, []string{"Lotus", "Tenno", "Ash", "Ember"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, victims(Combat(combatFixture(), "", tt.sort)))
		})
	}
}

func TestCombat_DamageAndValueSortAlike(t *testing.T) {
	for _, desc := range []bool{false, true} {
		byDamage := Combat(combatFixture(), "", Sort{Key: SortDamage, Desc: desc})
		byValue := Combat(combatFixture(), "", Sort{Key: SortValue, Desc: desc})
		assert.Equal(t, byValue, byDamage)
	}
}

func TestCombat_DoesNotModifyInput(t *testing.T) {
	events := combatFixture()
	_ = Combat(events, "", Sort{Key: SortTarget})
	assert.Equal(t, combatFixture(), events)
}

func TestWarnings_Rows(t *testing.T) {
	rows := Warnings(warningFixture(), "", Sort{})
	require.Len(t, rows, 3)

	r := rows[0]
	assert.Equal(t, "10:00:30", r.Time)
	assert.Equal(t, "1.20e+04", r.MaxDamage)
	assert.Equal(t, 2, r.Count)
	assert.Equal(t, "Unit took high dmg: 1.2e4; Secondary damage event", r.Preview)
	assert.Equal(t, []ChildRow{
		{Time: "10:00:30", Damage: "1.20e+04", Message: "Unit took high dmg: 1.2e4"},
		{Time: "10:00:30", Damage: "", Message: "Secondary damage event"},
	}, r.Children())

	assert.Equal(t, "0.00e+00", rows[1].MaxDamage)
	assert.Equal(t, "damage a; damage b; damage c...", rows[2].Preview)
}

func TestWarnings_Filter(t *testing.T) {
	rows := Warnings(warningFixture(), "SECONDARY", Sort{})
	require.Len(t, rows, 1)
	assert.Equal(t, 30.0, rows[0].Offset)

	// Messages past the preview still match
	rows = Warnings(warningFixture(), "damage d", Sort{})
	require.Len(t, rows, 1)
	assert.Equal(t, 20.0, rows[0].Offset)
}

func TestWarnings_Sort(t *testing.T) {
	offsets := func(rows []WarningRow) []float64 {
		out := make([]float64, len(rows))
		for i, r := range rows {
			out[i] = r.Offset
		}
		return out
	}

	assert.Equal(t, []float64{30, 20, 10}, offsets(Warnings(warningFixture(), "", Sort{Key: SortMaxDamage, Desc: true})))
	assert.Equal(t, []float64{10, 30, 20}, offsets(Warnings(warningFixture(), "", Sort{Key: SortMaxDamage})))
	assert.Equal(t, []float64{20, 30, 10}, offsets(Warnings(warningFixture(), "", Sort{Key: SortCount, Desc: true})))
	assert.Equal(t, []float64{10, 20, 30}, offsets(Warnings(warningFixture(), "", Sort{Key: SortTime})))
	assert.Equal(t, []float64{30, 10, 20}, offsets(Warnings(warningFixture(), "", Sort{Key: SortTarget})))
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "", Preview(nil))
	assert.Equal(t, "a", Preview([]string{"a"}))
	assert.Equal(t, "a; b; c", Preview([]string{"a", "b", "c"}))
	assert.Equal(t, "a; b; c...", Preview([]string{"a", "b", "c", "d"}))
}

func TestParseSortKey(t *testing.T) {
	k, err := ParseSortKey("Damage")
	require.NoError(t, err)
	assert.Equal(t, SortDamage, k)

	k, err = ParseSortKey(" victim ")
	require.NoError(t, err)
	assert.Equal(t, SortTarget, k)

	k, err = ParseSortKey("MaxDamage")
	require.NoError(t, err)
	assert.Equal(t, SortMaxDamage, k)

	_, err = ParseSortKey("colour")
	assert.Error(t, err)
}

func TestTable_ResetsOnNewSnapshot(t *testing.T) {
	snap := &event.Snapshot{Combat: combatFixture(), Warnings: warningFixture()}
	tbl := NewTable(snap)

	tbl.SetCombatFilter("grineer")
	tbl.SortCombat(Sort{Key: SortDamage, Desc: true})
	tbl.SetWarningFilter("damage")
	assert.Equal(t, []string{"Tenno", "Lotus"}, victims(tbl.CombatRows()))

	tbl.SetSnapshot(&event.Snapshot{Combat: combatFixture()})
	f, s := tbl.CombatFilter()
	assert.Empty(t, f)
	assert.Equal(t, Sort{}, s)
	f, _ = tbl.WarningFilter()
	assert.Empty(t, f)
	assert.Equal(t, []string{"Lotus", "Tenno", "Ash", "Ember"}, victims(tbl.CombatRows()))
	assert.Empty(t, tbl.WarningRows())
}

func TestTable_ClearFilterResetsSort(t *testing.T) {
	tbl := NewTable(&event.Snapshot{Combat: combatFixture()})
	tbl.SetCombatFilter("a")
	tbl.SortCombat(Sort{Key: SortTarget})
	tbl.SortWarnings(Sort{Key: SortCount})

	tbl.ClearFilter()
	f, s := tbl.CombatFilter()
	assert.Empty(t, f)
	assert.Equal(t, Sort{}, s)
	_, s = tbl.WarningFilter()
	assert.Equal(t, Sort{}, s)
	assert.Equal(t, []string{"Lotus", "Tenno", "Ash", "Ember"}, victims(tbl.CombatRows()))
}

func TestTable_NilSnapshot(t *testing.T) {
	tbl := NewTable(nil)
	assert.Nil(t, tbl.CombatRows())
	assert.Nil(t, tbl.WarningRows())
	assert.Equal(t, "Player: N/A | Start: N/A | End: N/A", tbl.Summary())
}

func TestSummary(t *testing.T) {
	snap := &event.Snapshot{
		Player: "Tenno",
		Start:  time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		End:    time.Date(2024, 1, 1, 10, 0, 40, 0, time.UTC),
		UTC:    true,
	}
	assert.Equal(t, "Player: Tenno | Start: 2024-01-01 10:00:00 | End: 2024-01-01 10:00:40", Summary(snap, nil))
	assert.Equal(t, "Player: Tenno | Start: 2024-01-01 11:00:00 | End: 2024-01-01 11:00:40",
		Summary(snap, time.FixedZone("CET", 3600)))

	snap.Player = ""
	assert.Contains(t, Summary(snap, time.UTC), "Player: N/A |")
}
