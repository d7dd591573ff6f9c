package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/snapmatch/packages/matcher"
)

// Status classifies a report entry.
type Status int

const (
	StatusPassed Status = iota
	StatusFailed
	StatusFatal
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	case StatusFatal:
		return "fatal"
	default:
		return "skipped"
	}
}

// Entry is the outcome of matching one content file against a snapshot.
type Entry struct {
	Target      string
	ContentFile string
	// Result is nil for entries that were never matched.
	Result   *matcher.Result
	Duration time.Duration
}

// Status returns the classification of the entry.
func (e Entry) Status() Status {
	switch {
	case e.Result == nil:
		return StatusSkipped
	case e.Result.Err != nil:
		return StatusFatal
	case !e.Result.Pass:
		return StatusFailed
	default:
		return StatusPassed
	}
}

// Summary counts entries per status.
type Summary struct {
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Fatal   int `json:"fatal"`
	Skipped int `json:"skipped"`
}

// Total returns the number of counted entries.
func (s Summary) Total() int {
	return s.Passed + s.Failed + s.Fatal + s.Skipped
}

func (s *Summary) add(e Entry) {
	switch e.Status() {
	case StatusPassed:
		s.Passed++
	case StatusFailed:
		s.Failed++
	case StatusFatal:
		s.Fatal++
	default:
		s.Skipped++
	}
}

// Formatter reports match results.
type Formatter interface {
	FormatEntry(e Entry)
	Flush(totalDuration time.Duration) error
}

// Formats lists the names accepted by NewFormatter.
var Formats = []string{"console", "json", "junit", "tap"}

// NewFormatter creates the formatter registered under name.
func NewFormatter(name string, w io.Writer, color bool) (Formatter, error) {
	switch strings.ToLower(name) {
	case "", "console":
		return NewConsoleFormatter(WithWriter(w), WithColor(color), WithSummary(true)), nil
	case "json":
		return NewJSONFormatter(JSONWithWriter(w)), nil
	case "junit":
		return NewJUnitFormatter(JUnitWithWriter(w)), nil
	case "tap":
		return NewTAPFormatter(TAPWithWriter(w)), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (expected one of %s)", name, strings.Join(Formats, ", "))
	}
}
