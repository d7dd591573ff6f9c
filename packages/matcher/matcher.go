package matcher

import (
	"context"
	"fmt"

	"github.com/abdul-hamid-achik/snapmatch/packages/core/logging"
	"github.com/abdul-hamid-achik/snapmatch/packages/diff"
	"github.com/abdul-hamid-achik/snapmatch/packages/snapshot"
	"github.com/abdul-hamid-achik/snapmatch/packages/template"
	"github.com/sirupsen/logrus"
)

// Request describes one named-snapshot assertion.
type Request struct {
	Content  string
	Target   string
	Template template.Kind
	// Label names the running test; it is the heading of HTML snapshots.
	Label string
	// TestFile is the running test's source file. Targets without a
	// directory are stored next to it.
	TestFile string
}

// TestContext carries what a match needs to know about the running test.
type TestContext struct {
	Label    string
	TestFile string
}

// State is a stage of a match attempt.
type State int

const (
	Start State = iota
	Rendering
	EnsuringDirectory
	ReadingExisting
	Writing
	Comparing
	Resolved
)

var stateNames = [...]string{
	Start:             "start",
	Rendering:         "rendering",
	EnsuringDirectory: "ensuring-directory",
	ReadingExisting:   "reading-existing",
	Writing:           "writing",
	Comparing:         "comparing",
	Resolved:          "resolved",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Matcher compares rendered content against named snapshot files.
type Matcher struct {
	store     *snapshot.Store
	presenter *diff.Presenter
	mode      snapshot.UpdateMode
	log       logrus.FieldLogger
}

// Option is a functional option for configuring a Matcher.
type Option func(*Matcher)

// WithUpdateMode sets the update mode applied to every match.
func WithUpdateMode(mode snapshot.UpdateMode) Option {
	return func(m *Matcher) {
		m.mode = mode
	}
}

// WithLogger sets the logger used to trace match attempts.
func WithLogger(log logrus.FieldLogger) Option {
	return func(m *Matcher) {
		m.log = log
	}
}

// New creates a Matcher. A nil store or presenter is replaced by the default.
func New(store *snapshot.Store, presenter *diff.Presenter, opts ...Option) *Matcher {
	if store == nil {
		store = snapshot.NewStore()
	}
	if presenter == nil {
		presenter = diff.NewPresenter()
	}
	m := &Matcher{
		store:     store,
		presenter: presenter,
		mode:      snapshot.Normal,
		log:       logging.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// UpdateMode returns the mode applied to matches.
func (m *Matcher) UpdateMode() snapshot.UpdateMode {
	return m.mode
}

// MatchNamedSnapshot matches content as-is against the named snapshot.
func (m *Matcher) MatchNamedSnapshot(ctx context.Context, content, target string, tc TestContext) *Result {
	return m.Match(ctx, newRequest(content, target, template.None, tc))
}

// MatchNamedHTMLSnapshot wraps content into a full HTML document before
// matching it against the named snapshot.
func (m *Matcher) MatchNamedHTMLSnapshot(ctx context.Context, content, target string, tc TestContext) *Result {
	return m.Match(ctx, newRequest(content, target, template.HTML, tc))
}

// MatchNamedJSONSnapshot canonicalizes JSON content before matching it
// against the named snapshot.
func (m *Matcher) MatchNamedJSONSnapshot(ctx context.Context, content, target string, tc TestContext) *Result {
	return m.Match(ctx, newRequest(content, target, template.JSON, tc))
}

func newRequest(content, target string, kind template.Kind, tc TestContext) Request {
	return Request{
		Content:  content,
		Target:   target,
		Template: kind,
		Label:    tc.Label,
		TestFile: tc.TestFile,
	}
}

// Match runs a match attempt and waits for its verdict.
func (m *Matcher) Match(ctx context.Context, req Request) *Result {
	return <-m.MatchAsync(ctx, req)
}

// MatchAsync starts a match attempt. The returned channel yields exactly one
// Result and is then closed. Failures are reported as failing Results.
func (m *Matcher) MatchAsync(ctx context.Context, req Request) <-chan *Result {
	a := &attempt{
		req:   req,
		mode:  m.mode,
		state: Start,
		latch: newLatch(),
		log:   m.log.WithField("target", req.Target),
	}
	go m.run(ctx, a)
	return a.latch.ch
}
