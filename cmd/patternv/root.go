package patternv

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	flagNoColor  bool
	flagThreads  int
	flagJSON     bool
	flagTable    bool
	flagInclude  string
	flagExclude  string
	flagMaxBytes int64
	flagNoCache  bool
	flagQuiet    bool
	flagDryRun   bool

	version = "0.1.0"
)

const defaultBuildsDir = "Builds/"

// rootCmd is the base Cobra command. Invoked bare it behaves like the
// original tool: positional directory, optional inline pattern, interactive
// prompt when no pattern is given.
var rootCmd = &cobra.Command{
	Use:   "patternv [dir] [pattern]",
	Short: "Track wildcard byte signatures across PE builds",
	Long: "PatternV searches the .text section of every build in a directory for a " +
		"wildcard byte pattern (e.g. \"48 8B ?? C3\") and reports where the signature " +
		"lives in each build. With an inline pattern it scans once and exits; without " +
		"one it prompts for patterns interactively.",
	Args:          cobra.MaximumNArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       version,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := defaultBuildsDir
		if len(args) > 0 {
			dir = args[0]
		}
		if len(args) > 1 {
			return runSingleScan(dir, args[1])
		}
		return runREPL(dir, os.Stdin)
	},
}

// Execute runs the PatternV CLI. Invocation-level errors (bad directory,
// unusable inline pattern) exit 1; a completed scan with misses exits 2 from
// inside the scan command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().IntVar(&flagThreads, "threads", 0, "worker count (0 = GOMAXPROCS)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit the report as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "render the report as a table")
	rootCmd.PersistentFlags().StringVar(&flagInclude, "include", "", "comma-separated include globs for candidate files")
	rootCmd.PersistentFlags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs for candidate files")
	rootCmd.PersistentFlags().Int64Var(&flagMaxBytes, "max-bytes", 0, "skip files larger than this (0 = no limit)")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "disable the section-location cache")
	rootCmd.PersistentFlags().BoolVar(&flagQuiet, "quiet", false, "suppress banners and warnings")
	rootCmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false, "report how many files a scan would visit, without scanning")
}

// colorDisabled resolves the effective color setting: the flag, the config
// files, and a non-terminal stdout all turn styling off.
func colorDisabled(cfgNoColor bool) bool {
	if flagNoColor || cfgNoColor {
		return true
	}
	return !term.IsTerminal(int(os.Stdout.Fd()))
}
