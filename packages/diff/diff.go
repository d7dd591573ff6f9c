// Package diff renders a bounded excerpt of two diverging texts.
//
// It does not compute an edit script. Both texts are scanned in fixed steps
// and a single window around the first divergent step is shown, which keeps
// messages short for very large snapshots.
package diff

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

const (
	// DefaultStep is the scan increment in characters.
	DefaultStep = 50
	// DefaultWindow is the excerpt length in characters.
	DefaultWindow = 250

	ellipsis = "..."
)

// Presenter renders two-sided excerpts labeled "New content" and "Old content".
type Presenter struct {
	Step   int
	Window int
	Color  bool
}

// NewPresenter returns a Presenter with the default step and window.
func NewPresenter() *Presenter {
	return &Presenter{Step: DefaultStep, Window: DefaultWindow}
}

// Excerpt is one side of a presented difference.
type Excerpt struct {
	Offset int
	Text   string
}

// Locate returns the offset of the window that contains the first divergence
// between oldText and newText, along with both excerpts.
func (p *Presenter) Locate(oldText, newText string) (oldEx, newEx Excerpt) {
	step, window := p.params()
	oldUnits := units(oldText)
	newUnits := units(newText)

	offset := 0
	for {
		if !slices.Equal(slice(oldUnits, offset, step), slice(newUnits, offset, step)) {
			break
		}
		if offset+step >= len(oldUnits) || offset+step >= len(newUnits) {
			break
		}
		offset += step
	}

	return excerpt(oldUnits, offset, window), excerpt(newUnits, offset, window)
}

// Present formats the first divergence between oldText and newText.
func (p *Presenter) Present(oldText, newText string) string {
	oldEx, newEx := p.Locate(oldText, newText)

	minus, plus := fmt.Sprint, fmt.Sprint
	if p.Color {
		minus = color.New(color.FgGreen).Sprint
		plus = color.New(color.FgRed).Sprint
	}

	var b strings.Builder
	b.WriteString(minus("- New content") + "\n")
	b.WriteString(plus("+ Old content") + "\n")
	b.WriteString("\n")
	b.WriteString(minus("- "+newEx.Text) + "\n")
	b.WriteString(plus("+ " + oldEx.Text))
	return b.String()
}

func (p *Presenter) params() (step, window int) {
	step, window = p.Step, p.Window
	if step <= 0 {
		step = DefaultStep
	}
	if window <= 0 {
		window = DefaultWindow
	}
	if window < step {
		window = step
	}
	return step, window
}

// units splits s into characters. Each byte of an invalid UTF-8 sequence is
// its own unit, written as a \x escape so that distinct bytes stay distinct.
func units(s string) []string {
	out := make([]string, 0, len(s))
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size == 1 {
			out = append(out, fmt.Sprintf("\\x%02x", s[0]))
		} else {
			out = append(out, s[:size])
		}
		s = s[size:]
	}
	return out
}

func slice(r []string, offset, n int) []string {
	if offset >= len(r) {
		return nil
	}
	end := offset + n
	if end > len(r) {
		end = len(r)
	}
	return r[offset:end]
}

func excerpt(r []string, offset, window int) Excerpt {
	var b strings.Builder
	if offset > 0 {
		b.WriteString(ellipsis)
	}
	b.WriteString(strings.Join(slice(r, offset, window), ""))
	if len(r) > offset+window {
		b.WriteString(ellipsis)
	}
	return Excerpt{Offset: offset, Text: b.String()}
}
