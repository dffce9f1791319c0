package types

// Status classifies the outcome of scanning one file.
type Status string

const (
	StatusFound    Status = "found"
	StatusNotFound Status = "not_found"
	StatusSkipped  Status = "skipped"
)

// FileResult describes the outcome for a single candidate file: its display
// identity, the offsets at which the pattern matched inside the searched
// range, and a skip reason when the file could not be scanned. Offsets are
// relative to the searched range, not the whole file.
type FileResult struct {
	File    string `json:"file"`
	Label   string `json:"label"`
	BuildID int    `json:"build_id"`
	Status  Status `json:"status"`
	Offsets []int  `json:"offsets,omitempty"`
	Reason  string `json:"reason,omitempty"`
}
