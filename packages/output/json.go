package output

import (
	"encoding/json"
	"io"
	"os"
	"time"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	Summary   JSONSummary    `json:"summary"`
	Snapshots []JSONSnapshot `json:"snapshots"`
	Duration  float64        `json:"duration"`
	Time      string         `json:"time"`
}

// JSONSummary represents the match summary
type JSONSummary struct {
	Total int `json:"total"`
	Summary
}

// JSONSnapshot represents a single match result
type JSONSnapshot struct {
	Target      string  `json:"target"`
	ContentFile string  `json:"contentFile,omitempty"`
	Path        string  `json:"path,omitempty"`
	Status      string  `json:"status"`
	Created     bool    `json:"created,omitempty"`
	Updated     bool    `json:"updated,omitempty"`
	Duration    float64 `json:"duration"`
	Message     string  `json:"message,omitempty"`
}

// JSONFormatter formats match results as JSON
type JSONFormatter struct {
	writer  io.Writer
	results []JSONSnapshot
	counts  Summary
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer:  os.Stdout,
		results: make([]JSONSnapshot, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatEntry(e Entry) {
	f.counts.add(e)

	snap := JSONSnapshot{
		Target:      e.Target,
		ContentFile: e.ContentFile,
		Status:      e.Status().String(),
		Duration:    float64(e.Duration.Milliseconds()),
	}
	if r := e.Result; r != nil {
		snap.Path = r.Path
		snap.Created = r.Created
		snap.Updated = r.Updated
		if !r.Pass {
			snap.Message = r.Message()
		}
	}

	f.results = append(f.results, snap)
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush(totalDuration time.Duration) error {
	output := JSONOutput{
		Summary: JSONSummary{
			Total:   f.counts.Total(),
			Summary: f.counts,
		},
		Snapshots: f.results,
		Duration:  float64(totalDuration.Milliseconds()),
		Time:      time.Now().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
