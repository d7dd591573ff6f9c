// Package snaptest adapts named-snapshot matching to the testing package.
//
//	func TestCard(t *testing.T) {
//		snaptest.MatchNamedHTMLSnapshot(t, renderCard(), "card")
//	}
//
// Snapshots are stored in __snapshots__ next to the calling test file. Run
// the tests with -snapmatch.update, or with SNAPMATCH_UPDATE=1 in the
// environment, to overwrite every snapshot.
package snaptest

import (
	"context"
	"flag"
	"fmt"
	"runtime"
	"sync"

	"github.com/abdul-hamid-achik/snapmatch/packages/core/config"
	"github.com/abdul-hamid-achik/snapmatch/packages/core/logging"
	"github.com/abdul-hamid-achik/snapmatch/packages/matcher"
	"github.com/abdul-hamid-achik/snapmatch/packages/snapshot"
	"github.com/abdul-hamid-achik/snapmatch/packages/template"
)

var updateFlag = flag.Bool("snapmatch.update", false, "overwrite all named snapshots")

// TB is the part of testing.TB used by this package.
type TB interface {
	Helper()
	Name() string
	Errorf(format string, args ...any)
}

var (
	defaultOnce    sync.Once
	defaultMatcher *matcher.Matcher
	defaultErr     error
	reportOnce     sync.Once
)

// Default returns the matcher used by the package-level helpers. It is built
// once from the config file in the working directory, SNAPMATCH_ environment
// settings and the update flag. Unusable settings are logged and replaced by
// the defaults; the first helper call then fails its test with the error.
func Default() *matcher.Matcher {
	defaultOnce.Do(func() {
		var cfg *config.Config
		cfg, defaultErr = loadSettings(".", *updateFlag)
		if defaultErr != nil {
			logging.New(logging.Options{Level: "warn"}).WithError(defaultErr).Warn("snapmatch settings ignored")
		}
		defaultMatcher = NewMatcher(cfg)
	})
	return defaultMatcher
}

// loadSettings returns the config for dir. On error it returns the defaults
// together with the error, so the update flag still applies.
func loadSettings(dir string, update bool) (*config.Config, error) {
	cfg, err := config.LoadWithEnv("", dir)
	if err != nil {
		cfg = config.DefaultConfig()
		err = fmt.Errorf("snapmatch: using default settings: %w", err)
	}
	if update {
		cfg = cfg.Merge(&config.Config{Update: config.BoolPtr(true)})
	}
	return cfg, err
}

func defaultFor(t TB) *matcher.Matcher {
	t.Helper()
	m := Default()
	reportOnce.Do(func() {
		if defaultErr != nil {
			t.Errorf("%v", defaultErr)
		}
	})
	return m
}

// NewMatcher builds a matcher from cfg.
func NewMatcher(cfg *config.Config) *matcher.Matcher {
	log := logging.New(logging.Options{Level: cfg.LogLevel, NoColor: !cfg.GetColor()})
	return matcher.New(
		snapshot.NewStore(snapshot.WithLogger(log)),
		cfg.Presenter(),
		matcher.WithUpdateMode(cfg.UpdateMode()),
		matcher.WithLogger(log),
	)
}

// MatchNamedSnapshot asserts that content equals the named snapshot.
func MatchNamedSnapshot(t TB, content, target string) bool {
	t.Helper()
	return match(t, defaultFor(t), content, target, template.None, callerFile(2))
}

// MatchNamedHTMLSnapshot asserts that content, embedded in a full HTML page,
// equals the named snapshot.
func MatchNamedHTMLSnapshot(t TB, content, target string) bool {
	t.Helper()
	return match(t, defaultFor(t), content, target, template.HTML, callerFile(2))
}

// MatchNamedJSONSnapshot asserts that canonicalized JSON content equals the
// named snapshot.
func MatchNamedJSONSnapshot(t TB, content, target string) bool {
	t.Helper()
	return match(t, defaultFor(t), content, target, template.JSON, callerFile(2))
}

// MatchWith runs a match with m and reports a failure on t.
func MatchWith(t TB, m *matcher.Matcher, content, target string, kind template.Kind) bool {
	t.Helper()
	return match(t, m, content, target, kind, callerFile(2))
}

func match(t TB, m *matcher.Matcher, content, target string, kind template.Kind, testFile string) bool {
	t.Helper()
	result := m.Match(context.Background(), matcher.Request{
		Content:  content,
		Target:   target,
		Template: kind,
		Label:    t.Name(),
		TestFile: testFile,
	})
	return Check(t, result)
}

// Check reports a failure on t unless result passed.
func Check(t TB, result *matcher.Result) bool {
	t.Helper()
	if !result.Pass {
		t.Errorf("%s", result.Message())
		return false
	}
	return true
}

// CheckNot reports a failure on t if result passed. Fatal errors fail the
// negated assertion as well.
func CheckNot(t TB, result *matcher.Result) bool {
	t.Helper()
	if result.Pass || result.Err != nil {
		t.Errorf("%s", result.Message())
		return false
	}
	return true
}

func callerFile(skip int) string {
	_, file, _, ok := runtime.Caller(skip)
	if !ok {
		return "."
	}
	return file
}
