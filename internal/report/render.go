// Package report renders ordered scan results for terminals and scripts and
// decides the process-level success signal. The core packages never import
// it; presentation choices stay on this side of the boundary.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/DaniGP17/PatternV/internal/types"
)

// PrintOptions carries the presentation configuration threaded in from the
// CLI. Nothing here is global state.
type PrintOptions struct {
	NoColor      bool
	Duration     time.Duration
	FilesScanned int
}

// PrintText writes one line per result in the classic format:
//
//	[+] Pattern found in 1204 (2 matches): 0x4A0, 0x1B37
//	[-] Pattern not found in 1207
//	[!] Skipped GameBeta.exe: section not found
//
// followed by a summary line with the elapsed milliseconds.
func PrintText(w io.Writer, results []types.FileResult, opts PrintOptions) {
	found := color.New(color.FgGreen)
	missing := color.New(color.FgRed)
	skipped := color.New(color.FgYellow)
	if opts.NoColor {
		found.DisableColor()
		missing.DisableColor()
		skipped.DisableColor()
	}

	for _, r := range results {
		switch r.Status {
		case types.StatusFound:
			fmt.Fprintf(w, "%s Pattern found in %s (%d matches): %s\n",
				found.Sprint("[+]"), r.Label, len(r.Offsets), formatOffsets(r.Offsets))
		case types.StatusNotFound:
			fmt.Fprintf(w, "%s Pattern not found in %s\n", missing.Sprint("[-]"), r.Label)
		case types.StatusSkipped:
			fmt.Fprintf(w, "%s Skipped %s: %s\n", skipped.Sprint("[!]"), r.Label, r.Reason)
		}
	}
	fmt.Fprintf(w, "\nScanned %d files in %d ms\n", opts.FilesScanned, opts.Duration.Milliseconds())
}

// PrintTable renders the same rows as PrintText in a bordered table.
func PrintTable(w io.Writer, results []types.FileResult, opts PrintOptions) {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"BUILD", "FILE", "STATUS", "MATCHES", "OFFSETS"})
	for _, r := range results {
		detail := formatOffsets(r.Offsets)
		if r.Status == types.StatusSkipped {
			detail = r.Reason
		}
		_ = table.Append([]string{
			r.Label,
			r.File,
			string(r.Status),
			strconv.Itoa(len(r.Offsets)),
			detail,
		})
	}
	_ = table.Render()
	fmt.Fprintf(w, "\nScanned %d files in %d ms\n", opts.FilesScanned, opts.Duration.Milliseconds())
}

// ShouldFail reports whether a single-shot invocation should exit non-zero:
// any not-found outcome fails the batch, skipped files do not.
func ShouldFail(results []types.FileResult) bool {
	for _, r := range results {
		if r.Status == types.StatusNotFound {
			return true
		}
	}
	return false
}

// formatOffsets renders match offsets as uppercase hex with no leading
// zeros, e.g. "0x0, 0x4A0, 0x1B37".
func formatOffsets(offsets []int) string {
	if len(offsets) == 0 {
		return ""
	}
	parts := make([]string, len(offsets))
	for i, off := range offsets {
		parts[i] = fmt.Sprintf("0x%X", off)
	}
	return strings.Join(parts, ", ")
}
