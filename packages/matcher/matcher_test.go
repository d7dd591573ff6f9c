package matcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/abdul-hamid-achik/snapmatch/packages/snapshot"
	"github.com/abdul-hamid-achik/snapmatch/packages/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T, dir string) TestContext {
	return TestContext{
		Label:    t.Name(),
		TestFile: filepath.Join(dir, "widget_test.go"),
	}
}

func TestMatcher_FirstRunCreatesThenMatches(t *testing.T) {
	tmpDir := t.TempDir()
	tc := testContext(t, tmpDir)
	m := New(nil, nil)

	result := m.MatchNamedSnapshot(context.Background(), "hello world", "greeting", tc)
	require.True(t, result.Pass, result.Message())
	assert.True(t, result.Created)
	assert.False(t, result.Updated)
	assert.Equal(t, filepath.Join(tmpDir, snapshot.SnapshotDir, "greeting.snap"), result.Path)
	assert.Equal(t, `ERROR: File "greeting.snap" was expected to already exist with some different content`, result.Message())

	data, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))

	result = m.MatchNamedSnapshot(context.Background(), "hello world", "greeting", tc)
	require.True(t, result.Pass, result.Message())
	assert.False(t, result.Created)
	assert.Equal(t, `ERROR: Old content of file "greeting.snap" was expected to differ from new content`, result.Message())
}

func TestMatcher_Mismatch(t *testing.T) {
	tmpDir := t.TempDir()
	tc := testContext(t, tmpDir)
	m := New(nil, nil)

	require.True(t, m.MatchNamedSnapshot(context.Background(), "version one", "doc", tc).Pass)

	result := m.MatchNamedSnapshot(context.Background(), "version two", "doc", tc)
	assert.False(t, result.Pass)
	assert.NoError(t, result.Err)

	msg := result.Message()
	assert.True(t, strings.HasPrefix(msg, `ERROR: Old content of file "doc.snap" was expected to equal the new content:`))
	assert.Contains(t, msg, "New content")
	assert.Contains(t, msg, "Old content")
	assert.Contains(t, msg, "- version two")
	assert.Contains(t, msg, "+ version one")

	// the stored snapshot is left untouched
	data, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	assert.Equal(t, "version one", string(data))
}

func TestMatcher_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	tc := testContext(t, tmpDir)
	m := New(nil, nil)

	content := "line one\r\nline two\n\ttabbed ünïcode\n"
	first := m.MatchNamedSnapshot(context.Background(), content, "rt.txt", tc)
	require.True(t, first.Pass)

	persisted, err := os.ReadFile(first.Path)
	require.NoError(t, err)

	again := m.MatchNamedSnapshot(context.Background(), string(persisted), "rt.txt", tc)
	assert.True(t, again.Pass, again.Message())
}

func TestMatcher_UpdateAll(t *testing.T) {
	tmpDir := t.TempDir()
	tc := testContext(t, tmpDir)

	normal := New(nil, nil)
	require.True(t, normal.MatchNamedSnapshot(context.Background(), "old", "upd", tc).Pass)
	require.False(t, normal.MatchNamedSnapshot(context.Background(), "new", "upd", tc).Pass)

	updater := New(nil, nil, WithUpdateMode(snapshot.UpdateAll))
	result := updater.MatchNamedSnapshot(context.Background(), "new", "upd", tc)
	require.True(t, result.Pass, result.Message())
	assert.True(t, result.Updated)
	assert.False(t, result.Created)
	assert.Contains(t, result.Message(), "was expected to differ")

	result = normal.MatchNamedSnapshot(context.Background(), "new", "upd", tc)
	assert.True(t, result.Pass, result.Message())
}

func TestMatcher_UpdateAllFreshFile(t *testing.T) {
	tmpDir := t.TempDir()
	m := New(nil, nil, WithUpdateMode(snapshot.UpdateAll))

	result := m.MatchNamedSnapshot(context.Background(), "x", "fresh", testContext(t, tmpDir))
	require.True(t, result.Pass)
	assert.True(t, result.Created)
	assert.Contains(t, result.Message(), "was expected to already exist")
}

func TestMatcher_MissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	m := New(nil, nil)

	result := m.MatchNamedSnapshot(context.Background(), "x", filepath.Join(missing, "snap"), testContext(t, t.TempDir()))
	assert.False(t, result.Pass)
	assert.Contains(t, result.Message(), missing)
	assert.Contains(t, result.Message(), "Can't find directory")

	var envErr *snapshot.EnvironmentError
	assert.True(t, errors.As(result.Err, &envErr))

	_, err := os.Stat(missing)
	assert.True(t, os.IsNotExist(err), "nothing may be created for a missing directory")
}

func TestMatcher_HTMLTemplate(t *testing.T) {
	tmpDir := t.TempDir()
	tc := testContext(t, tmpDir)
	m := New(nil, nil)

	result := m.MatchNamedHTMLSnapshot(context.Background(), "<div>x</div>", "case1", tc)
	require.True(t, result.Pass, result.Message())
	assert.Equal(t, filepath.Join(tmpDir, snapshot.SnapshotDir, "case1.html"), result.Path)

	data, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	doc := string(data)
	assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>\n"))
	assert.Contains(t, doc, "<h2>\n      "+t.Name()+"\n    </h2>")
	assert.Contains(t, doc, "<div>\n      x\n    </div>")

	// equivalent markup matches the canonical snapshot
	result = m.MatchNamedHTMLSnapshot(context.Background(), "<div>\n   x </div>", "case1", tc)
	assert.True(t, result.Pass, result.Message())
}

func TestMatcher_RenderError(t *testing.T) {
	tmpDir := t.TempDir()
	m := New(nil, nil)

	result := m.MatchNamedHTMLSnapshot(context.Background(), "<div></span>", "bad", testContext(t, tmpDir))
	assert.False(t, result.Pass)

	var renderErr *template.RenderError
	assert.True(t, errors.As(result.Err, &renderErr))
	assert.Contains(t, result.Message(), "FATAL")

	_, err := os.Stat(filepath.Join(tmpDir, snapshot.SnapshotDir))
	assert.True(t, os.IsNotExist(err), "render failures stop before touching the filesystem")
}

func TestMatcher_JSONTemplate(t *testing.T) {
	tmpDir := t.TempDir()
	tc := testContext(t, tmpDir)
	m := New(nil, nil)

	require.True(t, m.MatchNamedJSONSnapshot(context.Background(), `{"b":2,"a":1}`, "payload", tc).Pass)

	result := m.MatchNamedJSONSnapshot(context.Background(), `{ "a": 1, "b": 2 }`, "payload", tc)
	assert.True(t, result.Pass, result.Message())
	assert.Equal(t, filepath.Join(tmpDir, snapshot.SnapshotDir, "payload.json"), result.Path)
}

func TestMatcher_ReadErrorIsFatal(t *testing.T) {
	tmpDir := t.TempDir()
	tc := testContext(t, tmpDir)
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, snapshot.SnapshotDir, "dir.snap"), 0755))

	result := New(nil, nil).MatchNamedSnapshot(context.Background(), "x", "dir", tc)
	assert.False(t, result.Pass)

	var ioErr *snapshot.IOError
	assert.True(t, errors.As(result.Err, &ioErr))
}

func TestMatcher_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := New(nil, nil).MatchNamedSnapshot(ctx, "x", "never", testContext(t, t.TempDir()))
	assert.False(t, result.Pass)
	assert.True(t, errors.Is(result.Err, context.Canceled))
}

func TestMatcher_PanicInStepIsFatal(t *testing.T) {
	tmpDir := t.TempDir()
	m := New(nil, nil)
	m.store = nil // Ensure dereferences the store

	ch := m.MatchAsync(context.Background(), Request{
		Content:  "boom",
		Target:   "boom",
		Label:    t.Name(),
		TestFile: filepath.Join(tmpDir, "p_test.go"),
	})

	var results []*Result
	for r := range ch {
		results = append(results, r)
	}
	require.Len(t, results, 1)

	result := results[0]
	assert.False(t, result.Pass)
	require.Error(t, result.Err)
	assert.True(t, strings.HasPrefix(result.Message(), "FATAL: "))
	assert.Contains(t, result.Message(), "nil pointer")
	assert.Equal(t, filepath.Join(tmpDir, snapshot.SnapshotDir, "boom.snap"), result.Path)
	assert.NoDirExists(t, filepath.Join(tmpDir, snapshot.SnapshotDir))
}

func TestMatcher_MatchAsyncDeliversOnce(t *testing.T) {
	tmpDir := t.TempDir()
	m := New(nil, nil)

	ch := m.MatchAsync(context.Background(), Request{
		Content:  "async",
		Target:   "async",
		Label:    t.Name(),
		TestFile: filepath.Join(tmpDir, "a_test.go"),
	})

	var results []*Result
	for r := range ch {
		results = append(results, r)
	}
	require.Len(t, results, 1)
	assert.True(t, results[0].Pass)
}

func TestMatcher_ConcurrentDistinctTargets(t *testing.T) {
	tmpDir := t.TempDir()
	tc := testContext(t, tmpDir)
	m := New(nil, nil)

	var wg sync.WaitGroup
	results := make([]*Result, 20)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := "snap" + strings.Repeat("x", i)
			results[i] = m.MatchNamedSnapshot(context.Background(), name, name, tc)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.True(t, r.Pass, r.Message())
		assert.True(t, r.Created)
	}
}

func TestLatch_ResolvesOnce(t *testing.T) {
	l := newLatch()

	var delivered atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.resolve(NewResult(false, nil)) {
				delivered.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), delivered.Load())
	assert.True(t, l.resolved())

	count := 0
	for range l.ch {
		count++
	}
	assert.Equal(t, 1, count)
}

func TestResult_MessageIsLazy(t *testing.T) {
	var calls int
	r := NewResult(false, func() string {
		calls++
		return "described"
	})
	assert.Equal(t, 0, calls)

	assert.Equal(t, "described", r.Message())
	assert.Equal(t, "described", r.Message())
	assert.Equal(t, 1, calls)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "ensuring-directory", EnsuringDirectory.String())
	assert.Equal(t, "resolved", Resolved.String())
	assert.Equal(t, "state(42)", State(42).String())
}
