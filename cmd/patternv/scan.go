package patternv

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/DaniGP17/PatternV/internal/audit"
	"github.com/DaniGP17/PatternV/internal/config"
	"github.com/DaniGP17/PatternV/internal/engine"
	"github.com/DaniGP17/PatternV/internal/pattern"
	"github.com/DaniGP17/PatternV/internal/report"
	"github.com/DaniGP17/PatternV/internal/types"
)

var flagPattern string

func init() {
	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Scan builds once for a pattern and exit",
		Long: "Scan runs one batch over the builds directory and exits. The exit code is " +
			"0 when the pattern was found in every scanned file, 2 when at least one " +
			"file lacked it, and 1 for an invalid directory or pattern.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if flagPattern == "" {
				return errors.New("--pattern is required")
			}
			var dirArg string
			if len(args) > 0 {
				dirArg = args[0]
			}
			return runSingleScan(resolveDir(dirArg), flagPattern)
		},
	}
	cmd.Flags().StringVarP(&flagPattern, "pattern", "p", "", `byte pattern, e.g. "48 8B ?? C3"`)
	rootCmd.AddCommand(cmd)
}

// resolveDir picks the builds directory: positional argument, then global
// config, then the classic default.
func resolveDir(arg string) string {
	if arg != "" {
		return arg
	}
	if g, err := config.LoadGlobal(); err == nil && g.BuildsDir != nil && *g.BuildsDir != "" {
		return *g.BuildsDir
	}
	return defaultBuildsDir
}

// resolveEngineConfig merges CLI flags with local and global config files
// (CLI > local > global) and resolves the effective color setting.
func resolveEngineConfig(dir string) (engine.Config, bool) {
	var gcfg, lcfg config.FileConfig
	if c, err := config.LoadGlobal(); err == nil {
		gcfg = c
	}
	if c, err := config.LoadLocal(dir); err == nil {
		lcfg = c
	}
	cfg := engine.Config{
		Root:         dir,
		IncludeGlobs: pickString(flagInclude, lcfg.Include, gcfg.Include),
		ExcludeGlobs: pickString(flagExclude, lcfg.Exclude, gcfg.Exclude),
		MaxBytes:     pickInt64(flagMaxBytes, lcfg.MaxBytes, gcfg.MaxBytes),
		Threads:      pickInt(flagThreads, lcfg.Threads, gcfg.Threads),
		NoCache:      pickBool(flagNoCache, lcfg.NoCache, gcfg.NoCache),
	}
	noColor := colorDisabled(pickBool(false, lcfg.NoColor, gcfg.NoColor))
	return cfg, noColor
}

func runSingleScan(dir, text string) error {
	cfg, noColor := resolveEngineConfig(dir)

	pat, warnings := pattern.Compile(text)
	printWarnings(warnings)
	if len(pat) == 0 {
		return fmt.Errorf("invalid pattern %q", text)
	}

	if flagDryRun {
		return runDryRun(cfg)
	}

	if !flagJSON && !flagQuiet {
		if n, err := engine.CountCandidates(cfg); err == nil {
			fmt.Fprintf(os.Stderr, "Scanning %d builds in %s for %s\n", n, cfg.Root, pat)
		}
	}

	rep, err := engine.Scan(cfg, pat)
	if err != nil {
		return err
	}
	renderReport(rep, noColor)
	appendAudit(cfg.Root, pat.String(), rep)

	if report.ShouldFail(rep.Results) {
		os.Exit(2)
	}
	return nil
}

// runDryRun prints what a scan over cfg would visit and stops there.
func runDryRun(cfg engine.Config) error {
	n, err := engine.CountCandidates(cfg)
	if err != nil {
		return err
	}
	fmt.Printf("Would scan %d files in %s\n", n, cfg.Root)
	return nil
}

func renderReport(rep engine.Report, noColor bool) {
	opts := report.PrintOptions{
		NoColor:      noColor,
		Duration:     rep.Duration,
		FilesScanned: rep.FilesScanned,
	}
	switch {
	case flagJSON:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(rep)
	case flagTable:
		report.PrintTable(os.Stdout, rep.Results, opts)
	default:
		report.PrintText(os.Stdout, rep.Results, opts)
	}
}

func printWarnings(warnings []string) {
	if flagQuiet {
		return
	}
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
}

// appendAudit records the scan in the JSONL history. Audit failures degrade
// to a warning; the scan result is already on stdout.
func appendAudit(root, patternText string, rep engine.Report) {
	rec := audit.ScanRecord{
		Timestamp:  time.Now().UTC(),
		Pattern:    patternText,
		Root:       root,
		AllMatched: rep.AllMatched,
		Duration:   rep.Duration.String(),
	}
	for _, r := range rep.Results {
		switch r.Status {
		case types.StatusFound:
			rec.Found++
		case types.StatusNotFound:
			rec.NotFound++
		case types.StatusSkipped:
			rec.Skipped++
		}
	}
	if err := audit.NewLog(root).Append(rec); err != nil && !flagQuiet {
		fmt.Fprintln(os.Stderr, "audit warning:", err)
	}
}
