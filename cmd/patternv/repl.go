package patternv

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/DaniGP17/PatternV/internal/engine"
	"github.com/DaniGP17/PatternV/internal/pattern"
)

func init() {
	cmd := &cobra.Command{
		Use:   "repl [dir]",
		Short: "Interactively scan builds, one pattern per line",
		Long: "Repl reads one pattern per line from standard input and runs a full scan " +
			"for each valid line. An empty or invalid pattern is reported and the prompt " +
			"returns; end of input (Ctrl-D) ends the session.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			var dirArg string
			if len(args) > 0 {
				dirArg = args[0]
			}
			return runREPL(resolveDir(dirArg), os.Stdin)
		},
	}
	rootCmd.AddCommand(cmd)
}

func runREPL(dir string, input io.Reader) error {
	cfg, noColor := resolveEngineConfig(dir)

	if flagDryRun {
		return runDryRun(cfg)
	}

	// Fail fast on a bad directory instead of erroring on every line.
	if _, err := engine.CountCandidates(cfg); err != nil {
		return err
	}

	prompt := color.New(color.FgCyan)
	if noColor {
		prompt.DisableColor()
	}

	in := bufio.NewScanner(input)
	for {
		fmt.Print(prompt.Sprint("> "))
		if !in.Scan() {
			fmt.Println()
			return in.Err()
		}

		pat, warnings := pattern.Compile(in.Text())
		printWarnings(warnings)
		if len(pat) == 0 {
			fmt.Fprintln(os.Stderr, "Invalid pattern.")
			continue
		}

		rep, err := engine.Scan(cfg, pat)
		if err != nil {
			fmt.Fprintln(os.Stderr, "scan error:", err)
			continue
		}
		renderReport(rep, noColor)
		appendAudit(cfg.Root, pat.String(), rep)
		fmt.Println()
	}
}
