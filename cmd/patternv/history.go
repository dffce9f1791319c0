package patternv

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/DaniGP17/PatternV/internal/audit"
)

func init() {
	var limit int
	cmd := &cobra.Command{
		Use:   "history [dir]",
		Short: "Show recent scans from the audit log",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			var dirArg string
			if len(args) > 0 {
				dirArg = args[0]
			}
			dir := resolveDir(dirArg)

			recs, err := audit.NewLog(dir).LoadHistory()
			if err != nil {
				fmt.Println("No scan history for", dir)
				return nil
			}
			if limit > 0 && len(recs) > limit {
				recs = recs[len(recs)-limit:]
			}

			okMark := color.New(color.FgGreen)
			missMark := color.New(color.FgRed)
			if colorDisabled(false) {
				okMark.DisableColor()
				missMark.DisableColor()
			}
			for _, r := range recs {
				mark := missMark.Sprint("miss")
				if r.AllMatched {
					mark = okMark.Sprint("ok")
				}
				fmt.Fprintf(os.Stdout, "%s  %-4s  %q  found=%d not_found=%d skipped=%d  (%s)\n",
					r.Timestamp.Format("2006-01-02 15:04:05"), mark, r.Pattern,
					r.Found, r.NotFound, r.Skipped, r.Duration)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "show at most this many records (0 = all)")
	rootCmd.AddCommand(cmd)
}
