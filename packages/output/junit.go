package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"time"
)

// JUnit XML structures

// JUnitTestSuite is the root element; a verify run is a single suite.
type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Errors    int             `xml:"errors,attr"`
	Skipped   int             `xml:"skipped,attr"`
	Time      float64         `xml:"time,attr"`
	Timestamp string          `xml:"timestamp,attr,omitempty"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase represents a single snapshot match
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
}

// JUnitFailure represents a snapshot mismatch
type JUnitFailure struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitError represents a match that could not be carried out
type JUnitError struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitSkipped represents a match that never ran
type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// JUnitFormatter formats match results as JUnit XML
type JUnitFormatter struct {
	writer io.Writer
	suite  JUnitTestSuite
}

type JUnitOption func(*JUnitFormatter)

func NewJUnitFormatter(opts ...JUnitOption) *JUnitFormatter {
	f := &JUnitFormatter{
		writer: os.Stdout,
		suite: JUnitTestSuite{
			Name:      "snapmatch",
			TestCases: make([]JUnitTestCase, 0),
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JUnitWithWriter(w io.Writer) JUnitOption {
	return func(f *JUnitFormatter) {
		f.writer = w
	}
}

func (f *JUnitFormatter) FormatEntry(e Entry) {
	tc := JUnitTestCase{
		Name:      e.Target,
		ClassName: e.ContentFile,
		Time:      e.Duration.Seconds(),
	}

	f.suite.Tests++
	switch e.Status() {
	case StatusSkipped:
		f.suite.Skipped++
		tc.Skipped = &JUnitSkipped{Message: "not run"}
	case StatusFatal:
		f.suite.Errors++
		tc.Error = &JUnitError{
			Message: e.Result.Err.Error(),
			Type:    fmt.Sprintf("%T", e.Result.Err),
		}
	case StatusFailed:
		f.suite.Failures++
		tc.Failure = &JUnitFailure{
			Message: "Snapshot mismatch",
			Type:    "ContentMismatch",
			Content: e.Result.Message(),
		}
	}

	f.suite.TestCases = append(f.suite.TestCases, tc)
}

// Flush writes the accumulated JUnit XML output
func (f *JUnitFormatter) Flush(totalDuration time.Duration) error {
	f.suite.Time = totalDuration.Seconds()
	f.suite.Timestamp = time.Now().Format(time.RFC3339)

	fmt.Fprintf(f.writer, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	if err := encoder.Encode(f.suite); err != nil {
		return err
	}
	_, err := fmt.Fprintln(f.writer)
	return err
}
