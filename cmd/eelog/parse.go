package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eelog/eelog-go/pkg/eelog"
	"github.com/eelog/eelog-go/pkg/eelog/view"
)

var (
	// parse flags
	parseFormat string
	parseShow   string
	filterText  string
	sortKey     string
	sortDesc    bool
	expand      bool
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Print the combat events and damage warnings of a log",
	Long: `Parse the whole log once and print its combat events and grouped
damage warnings.

Examples:
  # Default log, human-readable tables
  eelog parse

  # Kills and downs by Grineer, highest damage first
  eelog parse --show combat --filter grineer --sort damage --desc

  # Warning groups with their individual lines, times in UTC
  eelog parse --show warnings --expand --utc

  # Machine-readable output
  eelog parse --log ./EE.log --format json | jq '.combat[].victim'`,
	Args: cobra.NoArgs,
	RunE: runParse,
}

func init() {
	f := parseCmd.Flags()
	f.StringVarP(&parseFormat, "format", "f", "pretty", "Output format: pretty, json")
	f.StringVar(&parseShow, "show", "all", "Rows to show: all, combat, warnings")
	f.StringVar(&filterText, "filter", "", "Case-insensitive text filter")
	f.StringVar(&sortKey, "sort", "", "Sort column: target, health, source, damage, time, max_damage, count, messages")
	f.BoolVar(&sortDesc, "desc", false, "Sort descending")
	f.BoolVar(&expand, "expand", false, "Show every line of each warning group")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	if err := checkFormat(parseFormat); err != nil {
		return err
	}
	showCombat, showWarnings, err := parseShowFlag(parseShow)
	if err != nil {
		return err
	}
	key, err := view.ParseSortKey(sortKey)
	if err != nil {
		return err
	}

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	log := newLogger()

	snap, err := eelog.ParseFile(s.logPath, s.parseOptions(log)...)
	if err != nil {
		return err
	}

	tbl := view.NewTable(snap)
	srt := view.Sort{Key: key, Desc: sortDesc}
	tbl.SetCombatFilter(filterText)
	tbl.SetWarningFilter(filterText)
	tbl.SortCombat(srt)
	tbl.SortWarnings(srt)

	r := report{Summary: tbl.Summary(), Snapshot: snap, Expand: expand}
	if showCombat {
		r.Combat = tbl.CombatRows()
	}
	if showWarnings {
		r.Warnings = tbl.WarningRows()
	}
	return OutputReport(parseFormat, r, cmd.OutOrStdout())
}

func parseShowFlag(show string) (combat, warnings bool, err error) {
	switch show {
	case "all", "":
		return true, true, nil
	case "combat":
		return true, false, nil
	case "warnings":
		return false, true, nil
	}
	return false, false, fmt.Errorf("invalid --show value %q (valid: all, combat, warnings)", show)
}
