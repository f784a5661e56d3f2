package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eelog/eelog-go/pkg/eelog"
)

var (
	// tail flags
	tailFormat string
	eventKinds []string
	includeRaw bool
	replay     bool
	usePolling bool
)

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Stream combat events and damage warnings as they are written",
	Long: `Follow the log and print each combat event and damage warning as the
game appends it.

Lines already in the log set the player name and time base. Use --replay to
print them too. Events are output as JSON Lines with --format json, which
makes it easy to process with tools like jq.

Examples:
  # Follow the default log
  eelog tail

  # Only kills and downs, starting from the beginning of the log
  eelog tail --kinds combat --replay

  # Pipe to jq for filtering
  eelog tail --format json | jq 'select(.combat.victim == "Tenno")'`,
	Args: cobra.NoArgs,
	RunE: runTail,
}

func init() {
	f := tailCmd.Flags()
	f.StringVarP(&tailFormat, "format", "f", "pretty", "Output format: pretty, json")
	f.StringSliceVarP(&eventKinds, "kinds", "k", nil, "Event kinds to show (comma-separated: combat,warning)")
	f.BoolVar(&includeRaw, "raw", false, "Include raw log lines in JSON output")
	f.BoolVar(&replay, "replay", false, "Print events already in the log before following")
	f.BoolVar(&usePolling, "poll", false, "Poll the file instead of using filesystem notifications")

	rootCmd.AddCommand(tailCmd)
}

func runTail(cmd *cobra.Command, args []string) error {
	if err := checkFormat(tailFormat); err != nil {
		return err
	}
	kinds, err := parseKinds(eventKinds)
	if err != nil {
		return err
	}
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	log := newLogger()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := []eelog.FollowOption{
		eelog.WithReplay(replay),
		eelog.WithIncludeRawLine(includeRaw),
		eelog.WithPolling(usePolling),
		eelog.WithFollowParseOptions(s.parseOptions(log)...),
	}
	return tailLog(ctx, s.logPath, tailFormat, kinds, opts, log, cmd.OutOrStdout())
}

// tailLog prints followed events until ctx is cancelled.
func tailLog(ctx context.Context, path, format string, kinds map[eelog.LiveKind]bool,
	opts []eelog.FollowOption, log *slog.Logger, out io.Writer) error {
	events, errs, err := eelog.Follow(ctx, path, opts...)
	if err != nil {
		return err
	}

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if len(kinds) > 0 && !kinds[ev.Kind] {
				continue
			}
			if err := OutputLiveEvent(format, ev, out); err != nil {
				return fmt.Errorf("output error: %w", err)
			}

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			log.Warn("follow error", "error", err)

		case <-ctx.Done():
			return nil
		}
	}
}

func parseKinds(names []string) (map[eelog.LiveKind]bool, error) {
	kinds := make(map[eelog.LiveKind]bool)
	for _, n := range names {
		switch k := eelog.LiveKind(n); k {
		case eelog.LiveCombat, eelog.LiveWarning:
			kinds[k] = true
		default:
			return nil, fmt.Errorf("unknown event kind %q (valid: combat, warning)", n)
		}
	}
	return kinds, nil
}
