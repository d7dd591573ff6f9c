package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// TAPFormatter formats match results in TAP (Test Anything Protocol) format
type TAPFormatter struct {
	writer  io.Writer
	entries []Entry
}

type TAPOption func(*TAPFormatter)

func NewTAPFormatter(opts ...TAPOption) *TAPFormatter {
	f := &TAPFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func TAPWithWriter(w io.Writer) TAPOption {
	return func(f *TAPFormatter) {
		f.writer = w
	}
}

func (f *TAPFormatter) FormatEntry(e Entry) {
	f.entries = append(f.entries, e)
}

// Flush writes the accumulated TAP output
func (f *TAPFormatter) Flush(totalDuration time.Duration) error {
	fmt.Fprintf(f.writer, "TAP version 13\n")
	fmt.Fprintf(f.writer, "1..%d\n", len(f.entries))

	for i, e := range f.entries {
		n := i + 1
		switch e.Status() {
		case StatusSkipped:
			fmt.Fprintf(f.writer, "ok %d - %s # SKIP not run\n", n, e.Target)
		case StatusPassed:
			fmt.Fprintf(f.writer, "ok %d - %s\n", n, e.Target)
		case StatusFatal:
			fmt.Fprintf(f.writer, "not ok %d - %s\n", n, e.Target)
			fmt.Fprintf(f.writer, "  ---\n")
			fmt.Fprintf(f.writer, "  message: %s\n", escapeYAML(e.Result.Message()))
			fmt.Fprintf(f.writer, "  severity: fatal\n")
			fmt.Fprintf(f.writer, "  ...\n")
		case StatusFailed:
			fmt.Fprintf(f.writer, "not ok %d - %s\n", n, e.Target)
			fmt.Fprintf(f.writer, "  ---\n")
			fmt.Fprintf(f.writer, "  diff: |\n")
			for _, line := range strings.Split(e.Result.Message(), "\n") {
				fmt.Fprintf(f.writer, "    %s\n", line)
			}
			fmt.Fprintf(f.writer, "  ...\n")
		}
	}

	fmt.Fprintln(f.writer)
	return nil
}

func escapeYAML(s string) string {
	// Simple YAML escaping - wrap in quotes if contains special chars
	if strings.ContainsAny(s, ":\n\"'[]{}#&*!|>%@`") {
		s = strings.ReplaceAll(s, "\"", "\\\"")
		s = strings.ReplaceAll(s, "\n", "\\n")
		return "\"" + s + "\""
	}
	return s
}
