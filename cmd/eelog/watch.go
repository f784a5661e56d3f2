package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eelog/eelog-go/pkg/eelog"
)

var (
	// watch flags
	watchFormat  string
	pollInterval time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-parse the log whenever it changes",
	Long: `Keep a snapshot of the log current while the game runs.

The log is checked every --interval and shortly after each write. Every time
it changes, the summary line and the combat events new since the previous
snapshot are printed. If the game holds the log locked, the previous
snapshot is kept and the next check retries.

Examples:
  eelog watch
  eelog watch --interval 5s --format json`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	f := watchCmd.Flags()
	f.StringVarP(&watchFormat, "format", "f", "pretty", "Output format: pretty, json")
	f.DurationVar(&pollInterval, "interval", 2*time.Second, "Poll interval")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := checkFormat(watchFormat); err != nil {
		return err
	}
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	log := newLogger()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return watchLog(ctx, s, watchFormat, log, cmd.OutOrStdout())
}

// watchLog prints snapshot updates until ctx is cancelled.
func watchLog(ctx context.Context, s settings, format string, log *slog.Logger, out io.Writer) error {
	loader, err := eelog.NewLoader(s.logPath, s.parseOptions(log)...)
	if err != nil {
		return err
	}
	w, err := eelog.NewWatcher(loader, s.watchOptions(log)...)
	if err != nil {
		return err
	}
	defer w.Close()

	snaps, errs, err := w.Watch(ctx)
	if err != nil {
		return err
	}

	var prev *eelog.Snapshot
	for {
		select {
		case snap, ok := <-snaps:
			if !ok {
				return nil
			}
			if err := OutputSnapshotUpdate(format, snap, newCombat(prev, snap), out); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
			prev = snap

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			log.Warn("refresh failed, keeping previous snapshot", "error", err)

		case <-ctx.Done():
			return nil
		}
	}
}

// newCombat returns the combat events of cur that follow those of prev.
// A log that shrank or changed its anchored start was replaced, so every
// event is new.
func newCombat(prev, cur *eelog.Snapshot) []eelog.CombatEvent {
	if prev == nil || prev.Path != cur.Path || len(cur.Combat) < len(prev.Combat) {
		return cur.Combat
	}
	if prev.Anchored && cur.Anchored && !prev.Start.Equal(cur.Start) {
		return cur.Combat
	}
	return cur.Combat[len(prev.Combat):]
}
