package engine

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/DaniGP17/PatternV/internal/buildid"
	"github.com/DaniGP17/PatternV/internal/cache"
	"github.com/DaniGP17/PatternV/internal/pattern"
	"github.com/DaniGP17/PatternV/internal/pefile"
	"github.com/DaniGP17/PatternV/internal/types"
)

// Config controls scanning behavior including scope, performance, and filters.
type Config struct {
	Root         string
	IncludeGlobs string
	ExcludeGlobs string
	MaxBytes     int64
	Threads      int
	NoCache      bool
	Progress     func()
}

// Report is the ordered outcome of one scan: per-file results sorted by
// numeric build id, the files-scanned count, elapsed wall-clock time, and
// the batch success signal.
type Report struct {
	Results      []types.FileResult `json:"results"`
	FilesScanned int                `json:"files_scanned"`
	Duration     time.Duration      `json:"-"`
	DurationMS   int64              `json:"duration_ms"`
	// AllMatched is true when every scanned file produced a found outcome.
	// Skipped files do not count against it; any not-found outcome clears it.
	AllMatched bool `json:"all_matched"`
}

// ErrEmptyPattern is returned when a scan is requested with a pattern that
// compiled to zero elements.
var ErrEmptyPattern = errors.New("empty pattern")

// Scan fans one unit of work per Candidate file out over a bounded
// worker pool and reassembles the outcomes deterministically. The compiled
// pattern is shared read-only by every worker; the result slice is the only
// shared mutable state and is appended to under a mutex with each outcome
// fully computed first. Per-file failures become skipped outcomes and never
// abort sibling units.
func Scan(cfg Config, pat pattern.Pattern) (Report, error) {
	var rep Report
	if len(pat) == 0 {
		return rep, ErrEmptyPattern
	}
	cands, err := Candidates(cfg)
	if err != nil {
		return rep, err
	}

	db := cache.DB{Entries: map[string]pefile.Section{}}
	if !cfg.NoCache {
		db, _ = cache.Load(cfg.Root)
	}

	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}

	started := time.Now()
	var (
		mu      sync.Mutex
		results []types.FileResult
		located = map[string]pefile.Section{}
	)

	jobs := make(chan Candidate)
	var wg sync.WaitGroup
	for i := 0; i < threads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				res, loc := scanOne(pat, c, db)
				mu.Lock()
				results = append(results, res)
				if loc != nil {
					located[loc.key] = loc.sec
				}
				mu.Unlock()
				if cfg.Progress != nil {
					cfg.Progress()
				}
			}
		}()
	}
	for _, c := range cands {
		jobs <- c
	}
	close(jobs)
	wg.Wait()

	sort.Slice(results, func(i, j int) bool {
		if results[i].BuildID != results[j].BuildID {
			return results[i].BuildID < results[j].BuildID
		}
		return results[i].File < results[j].File
	})

	rep.Results = results
	rep.FilesScanned = len(results)
	rep.Duration = time.Since(started)
	rep.DurationMS = rep.Duration.Milliseconds()
	rep.AllMatched = true
	for _, r := range results {
		if r.Status == types.StatusNotFound {
			rep.AllMatched = false
			break
		}
	}

	if !cfg.NoCache && len(located) > 0 {
		for k, v := range located {
			db.Entries[k] = v
		}
		_ = cache.Save(cfg.Root, db)
	}
	return rep, nil
}

type locatedSection struct {
	key string
	sec pefile.Section
}

// scanOne executes a single unit of work: load, resolve the search range,
// match. It returns the freshly located section, if any, so the aggregator
// can fold it into the cache.
func scanOne(pat pattern.Pattern, c Candidate, db cache.DB) (types.FileResult, *locatedSection) {
	label := buildid.Label(c.Name)
	res := types.FileResult{
		File:    c.Name,
		Label:   label,
		BuildID: buildid.SortKey(label),
	}

	buf, err := os.ReadFile(c.Path)
	if err != nil {
		res.Status = types.StatusSkipped
		res.Reason = fmt.Sprintf("read failed: %v", err)
		return res, nil
	}

	search := buf
	var loc *locatedSection
	if !c.Raw {
		key := cache.Hash(buf)
		sec, ok := db.Entries[key]
		if !ok || sec.End() > int64(len(buf)) {
			sec, err = pefile.LocateTextSection(buf)
			if err != nil {
				res.Status = types.StatusSkipped
				res.Reason = fmt.Sprintf("section not found: %v", err)
				return res, nil
			}
			loc = &locatedSection{key: key, sec: sec}
		}
		search = buf[sec.Offset:sec.End()]
	}

	offsets := pat.FindAll(search)
	if len(offsets) > 0 {
		res.Status = types.StatusFound
		res.Offsets = offsets
	} else {
		res.Status = types.StatusNotFound
	}
	return res, loc
}
