package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
)

type ConsoleFormatter struct {
	writer  io.Writer
	color   bool
	summary bool
	counts  Summary
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
		color:  !color.NoColor,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithColor(c bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.color = c
	}
}

// WithSummary enables the totals line written by Flush.
func WithSummary(s bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.summary = s
	}
}

func (f *ConsoleFormatter) paint(attr color.Attribute) func(a ...interface{}) string {
	if !f.color {
		return fmt.Sprint
	}
	c := color.New(attr)
	c.EnableColor()
	return c.SprintFunc()
}

func (f *ConsoleFormatter) FormatEntry(e Entry) {
	green := f.paint(color.FgGreen)
	red := f.paint(color.FgRed)
	yellow := f.paint(color.FgYellow)

	f.counts.add(e)
	r := e.Result

	switch e.Status() {
	case StatusSkipped:
		fmt.Fprintf(f.writer, "%s %s (skipped)\n", yellow("-"), e.Target)
	case StatusFatal:
		fmt.Fprintf(f.writer, "%s %s\n  %s\n", red("✗"), e.Target, r.Message())
	case StatusFailed:
		fmt.Fprintf(f.writer, "%s %s\n%s\n", red("✗"), e.Target, r.Message())
	default:
		switch {
		case r.Created:
			fmt.Fprintf(f.writer, "%s %s (created %s)\n", green("✓"), e.Target, r.Path)
		case r.Updated:
			fmt.Fprintf(f.writer, "%s %s (updated %s)\n", green("✓"), e.Target, r.Path)
		default:
			fmt.Fprintf(f.writer, "%s %s\n", green("✓"), e.Target)
		}
	}
}

// Flush writes the totals line if enabled.
func (f *ConsoleFormatter) Flush(totalDuration time.Duration) error {
	if !f.summary {
		return nil
	}
	c := f.counts
	fmt.Fprintf(f.writer, "\n%d passed, %d failed, %d fatal, %d skipped\n", c.Passed, c.Failed, c.Fatal, c.Skipped)
	fmt.Fprintf(f.writer, "Time:  %dms\n", totalDuration.Milliseconds())
	return nil
}
