package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// Candidate is one unit of work: a regular file in the builds directory
// whose extension marks it as scannable. Raw candidates are previously
// extracted code-section files and are searched whole.
type Candidate struct {
	Path string
	Name string
	Raw  bool
}

// rawSuffix is appended to a source filename by extraction mode, and marks a
// file whose entire content is a code section.
const rawSuffix = ".text"

// Candidates lists the scannable files directly inside cfg.Root, in
// directory order. Entries that are not regular files, carry another
// extension, exceed MaxBytes, or fall outside the include/exclude globs are
// ignored without an outcome.
func Candidates(cfg Config) ([]Candidate, error) {
	entries, err := os.ReadDir(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("can't read builds directory %s: %w", cfg.Root, err)
	}
	var out []Candidate
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		name := e.Name()
		raw := strings.EqualFold(filepath.Ext(name), rawSuffix)
		if !raw && !strings.EqualFold(filepath.Ext(name), ".exe") {
			continue
		}
		if !allowedByGlobs(name, cfg) {
			continue
		}
		if cfg.MaxBytes > 0 {
			if info, err := e.Info(); err == nil && info.Size() > cfg.MaxBytes {
				continue
			}
		}
		out = append(out, Candidate{Path: filepath.Join(cfg.Root, name), Name: name, Raw: raw})
	}
	return out, nil
}

// CountCandidates reports how many files a scan over cfg would visit.
func CountCandidates(cfg Config) (int, error) {
	cands, err := Candidates(cfg)
	if err != nil {
		return 0, err
	}
	return len(cands), nil
}

// allowedByGlobs returns true if the given filename is allowed by the
// include/exclude glob configuration. Include globs are comma-separated and,
// if provided, act as a positive filter. Exclude globs are subtracted last.
func allowedByGlobs(name string, cfg Config) bool {
	includes := parseGlobsList(cfg.IncludeGlobs)
	excludes := parseGlobsList(cfg.ExcludeGlobs)
	if len(includes) > 0 && !matchAnyGlob(name, includes) {
		return false
	}
	if len(excludes) > 0 && matchAnyGlob(name, excludes) {
		return false
	}
	return true
}

func parseGlobsList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func matchAnyGlob(name string, globs []string) bool {
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, name); ok {
			return true
		}
	}
	return false
}
