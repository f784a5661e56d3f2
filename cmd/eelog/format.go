package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/eelog/eelog-go/pkg/eelog"
	"github.com/eelog/eelog-go/pkg/eelog/view"
)

// ValidFormats lists all valid output formats.
var ValidFormats = map[string]bool{
	"json":   true,
	"pretty": true,
}

func checkFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("unknown format: %s (valid: json, pretty)", format)
	}
	return nil
}

// printer renders pretty output. Colors are only emitted when out is a
// terminal.
type printer struct {
	out     io.Writer
	header  lipgloss.Style
	heading lipgloss.Style
	dim     lipgloss.Style
	killed  lipgloss.Style
	downed  lipgloss.Style
	warning lipgloss.Style
}

func newPrinter(out io.Writer) *printer {
	r := lipgloss.NewRenderer(out)
	return &printer{
		out:     out,
		header:  r.NewStyle().Bold(true),
		heading: r.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		dim:     r.NewStyle().Faint(true),
		killed:  r.NewStyle().Foreground(lipgloss.Color("196")),
		downed:  r.NewStyle().Foreground(lipgloss.Color("220")),
		warning: r.NewStyle().Foreground(lipgloss.Color("208")),
	}
}

// table writes rows with each column padded to its widest cell.
func (p *printer) table(headers []string, rows [][]string) error {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	line := func(cells []string, style *lipgloss.Style) error {
		var sb strings.Builder
		for i, cell := range cells {
			if i == len(cells)-1 {
				sb.WriteString(cell)
				break
			}
			sb.WriteString(cell)
			sb.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+2))
		}
		s := sb.String()
		if style != nil {
			s = style.Render(s)
		}
		_, err := fmt.Fprintln(p.out, s)
		return err
	}

	if err := line(headers, &p.dim); err != nil {
		return err
	}
	for _, row := range rows {
		if err := line(row, nil); err != nil {
			return err
		}
	}
	return nil
}

// report is the output of the parse command.
type report struct {
	Summary  string
	Snapshot *eelog.Snapshot
	Combat   []view.CombatRow
	Warnings []view.WarningRow
	Expand   bool
}

// OutputReport writes a parse report in the specified format.
func OutputReport(format string, r report, out io.Writer) error {
	switch format {
	case "json":
		return outputReportJSON(r, out)
	case "pretty":
		return newPrinter(out).report(r)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

type warningJSON struct {
	view.WarningRow
	Children []view.ChildRow `json:"children"`
}

type reportJSON struct {
	Path         string           `json:"path,omitempty"`
	Player       string           `json:"player"`
	Start        time.Time        `json:"start"`
	End          time.Time        `json:"end"`
	Anchored     bool             `json:"anchored"`
	SkippedLines int              `json:"skipped_lines,omitempty"`
	Combat       []view.CombatRow `json:"combat"`
	Warnings     []warningJSON    `json:"warnings"`
}

func outputReportJSON(r report, out io.Writer) error {
	doc := reportJSON{
		Combat:   r.Combat,
		Warnings: make([]warningJSON, len(r.Warnings)),
	}
	if r.Snapshot != nil {
		doc.Path = r.Snapshot.Path
		doc.Player = r.Snapshot.Player
		doc.Start = r.Snapshot.Start
		doc.End = r.Snapshot.End
		doc.Anchored = r.Snapshot.Anchored
		doc.SkippedLines = r.Snapshot.SkippedLines
	}
	if doc.Combat == nil {
		doc.Combat = []view.CombatRow{}
	}
	for i, w := range r.Warnings {
		doc.Warnings[i] = warningJSON{WarningRow: w, Children: w.Children()}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func (p *printer) report(r report) error {
	if _, err := fmt.Fprintln(p.out, p.header.Render(r.Summary)); err != nil {
		return err
	}

	if r.Combat != nil {
		fmt.Fprintln(p.out)
		fmt.Fprintln(p.out, p.heading.Render(fmt.Sprintf("COMBAT (%d)", len(r.Combat))))
		rows := make([][]string, len(r.Combat))
		for i, c := range r.Combat {
			rows[i] = []string{c.Victim, c.Health, c.Source, c.Damage, c.Time}
		}
		if err := p.table([]string{"TARGET", "HEALTH", "SOURCE", "DAMAGE", "TIME"}, rows); err != nil {
			return err
		}
	}

	if r.Warnings != nil {
		fmt.Fprintln(p.out)
		fmt.Fprintln(p.out, p.heading.Render(fmt.Sprintf("WARNINGS (%d)", len(r.Warnings))))
		var rows [][]string
		for _, w := range r.Warnings {
			rows = append(rows, []string{w.Time, w.MaxDamage, strconv.Itoa(w.Count), w.Preview})
			if !r.Expand {
				continue
			}
			for _, c := range w.Children() {
				rows = append(rows, []string{"  " + c.Time, c.Damage, "", c.Message})
			}
		}
		if err := p.table([]string{"TIME", "MAX DAMAGE", "COUNT", "MESSAGES"}, rows); err != nil {
			return err
		}
	}
	return nil
}

// OutputLiveEvent writes a followed event in the specified format.
func OutputLiveEvent(format string, ev eelog.LiveEvent, out io.Writer) error {
	switch format {
	case "json":
		return outputJSONLine(ev, out)
	case "pretty":
		return newPrinter(out).liveEvent(ev)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func outputJSONLine(v any, out io.Writer) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func (p *printer) combat(ev eelog.CombatEvent) error {
	style := p.killed
	if ev.State == "downed" {
		style = p.downed
	}
	_, err := fmt.Fprintln(p.out, style.Render(ev.Message))
	return err
}

func (p *printer) liveEvent(ev eelog.LiveEvent) error {
	switch ev.Kind {
	case eelog.LiveCombat:
		if ev.Combat != nil {
			return p.combat(*ev.Combat)
		}
	case eelog.LiveWarning:
		if ev.Warning != nil {
			line := fmt.Sprintf("%s ! %s", ev.Warning.Time, ev.Warning.Message)
			if ev.Warning.Damage != "" {
				line += " (" + ev.Warning.Damage + ")"
			}
			_, err := fmt.Fprintln(p.out, p.warning.Render(line))
			return err
		}
	}
	return nil
}

// snapshotUpdate is one watch notification in JSON form.
type snapshotUpdate struct {
	Path      string              `json:"path"`
	Player    string              `json:"player"`
	Start     time.Time           `json:"start"`
	End       time.Time           `json:"end"`
	NewCombat []eelog.CombatEvent `json:"new_combat"`
	Warnings  int                 `json:"warning_groups"`
}

// OutputSnapshotUpdate writes the summary of a refreshed snapshot and the
// combat events that were not in the previous one.
func OutputSnapshotUpdate(format string, snap *eelog.Snapshot, fresh []eelog.CombatEvent, out io.Writer) error {
	switch format {
	case "json":
		if fresh == nil {
			fresh = []eelog.CombatEvent{}
		}
		return outputJSONLine(snapshotUpdate{
			Path:      snap.Path,
			Player:    snap.Player,
			Start:     snap.Start,
			End:       snap.End,
			NewCombat: fresh,
			Warnings:  len(snap.Warnings),
		}, out)
	case "pretty":
		p := newPrinter(out)
		if _, err := fmt.Fprintln(p.out, p.header.Render(view.Summary(snap, nil))); err != nil {
			return err
		}
		for _, ev := range fresh {
			if err := p.combat(ev); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
