// Command eelog reads Warframe EE.log files.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	// global flags
	verbose     bool
	configPath  string
	logPath     string
	useUTC      bool
	ignored     []string
	allWarnings bool
)

var rootCmd = &cobra.Command{
	Use:   "eelog",
	Short: "Parse and monitor Warframe EE.log files",
	Long: `eelog reconstructs a timeline of combat events (downs and kills) and
high-damage warnings from Warframe's EE.log.

The log is located from --log, the log_path config value, the EELOG_PATH
environment variable, or %LOCALAPPDATA%\Warframe\EE.log, in that order.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
	pf.StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	pf.StringVarP(&logPath, "log", "l", "", "Path to EE.log (auto-detected if not specified)")
	pf.BoolVar(&useUTC, "utc", false, "Show times in UTC instead of local time")
	pf.StringSliceVar(&ignored, "ignore", nil, "Additional victims to exclude (comma-separated)")
	pf.BoolVar(&allWarnings, "all-warnings", false, "Keep warnings that do not mention damage")
}

// newLogger returns the stderr logger used by every subcommand.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func main() {
	registerFlagCompletions()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
