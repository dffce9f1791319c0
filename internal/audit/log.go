// Package audit keeps an append-only JSONL history of completed scans next
// to the builds directory, so a tracking session can be reviewed later.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const fileName = ".patternv_audit.jsonl"

// ScanRecord summarizes one completed scan.
type ScanRecord struct {
	Timestamp  time.Time `json:"timestamp"`
	Pattern    string    `json:"pattern"`
	Root       string    `json:"root"`
	Found      int       `json:"found"`
	NotFound   int       `json:"not_found"`
	Skipped    int       `json:"skipped"`
	AllMatched bool      `json:"all_matched"`
	Duration   string    `json:"duration"`
}

// Log appends scan records to the audit file for one builds directory.
type Log struct {
	path string
}

func NewLog(root string) *Log {
	return &Log{path: filepath.Join(root, fileName)}
}

// Append writes one record. Failures are returned so the caller can degrade
// to a warning; the scan itself never depends on the audit log.
func (l *Log) Append(rec ScanRecord) error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	return enc.Encode(rec)
}

// LoadHistory reads every parseable record, oldest first. Records that fail
// to decode are skipped.
func (l *Log) LoadHistory() ([]ScanRecord, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	var records []ScanRecord
	dec := json.NewDecoder(f)
	for dec.More() {
		var rec ScanRecord
		if err := dec.Decode(&rec); err != nil {
			break
		}
		records = append(records, rec)
	}
	return records, nil
}
