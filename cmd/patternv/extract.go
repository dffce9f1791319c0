package patternv

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/DaniGP17/PatternV/internal/engine"
	"github.com/DaniGP17/PatternV/internal/pefile"
)

func init() {
	cmd := &cobra.Command{
		Use:   "extract [dir]",
		Short: "Write each build's .text section to a sibling file",
		Long: "Extract locates the .text section of every candidate executable and writes " +
			"its bytes verbatim to <file>.text next to the original. Files whose section " +
			"cannot be located are skipped with a warning; extracted files can later be " +
			"scanned directly without any header parsing.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			var dirArg string
			if len(args) > 0 {
				dirArg = args[0]
			}
			return runExtract(resolveDir(dirArg))
		},
	}
	rootCmd.AddCommand(cmd)
}

func runExtract(dir string) error {
	cfg, noColor := resolveEngineConfig(dir)
	cands, err := engine.Candidates(cfg)
	if err != nil {
		return err
	}

	ok := color.New(color.FgGreen)
	warn := color.New(color.FgYellow)
	if noColor {
		ok.DisableColor()
		warn.DisableColor()
	}

	extracted, total := 0, 0
	for _, c := range cands {
		if c.Raw {
			continue
		}
		total++
		dst := c.Path + ".text"
		sec, err := pefile.ExtractTextSection(c.Path, dst)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %s: %v\n", warn.Sprint("[!]"), c.Name, err)
			continue
		}
		extracted++
		if !flagQuiet {
			fmt.Printf("%s %s -> %s (%d bytes at 0x%X)\n", ok.Sprint("[+]"), c.Name, dst, sec.Size, sec.Offset)
		}
	}
	if !flagQuiet {
		fmt.Printf("\nExtracted %d of %d executables\n", extracted, total)
	}
	if total > 0 && extracted == 0 {
		return fmt.Errorf("no sections extracted from %d executables in %s", total, dir)
	}
	return nil
}
