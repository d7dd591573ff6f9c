package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/snapmatch/packages/matcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntries() []Entry {
	created := matcher.NewResult(true, func() string { return "" })
	created.Created = true
	created.Path = "__snapshots__/a.snap"

	mismatch := matcher.NewResult(false, func() string { return "- New content\n+ Old content" })

	fatal := matcher.NewResult(false, func() string { return "FATAL: boom" })
	fatal.Err = errors.New("boom")

	return []Entry{
		{Target: "a", ContentFile: "a.txt", Result: created, Duration: 2 * time.Millisecond},
		{Target: "b", ContentFile: "b.txt", Result: mismatch},
		{Target: "c", ContentFile: "c.txt", Result: fatal},
		{Target: "d", ContentFile: "d.txt"},
	}
}

func TestEntryStatus(t *testing.T) {
	entries := sampleEntries()
	want := []Status{StatusPassed, StatusFailed, StatusFatal, StatusSkipped}
	for i, e := range entries {
		assert.Equal(t, want[i], e.Status(), e.Target)
	}
	assert.Equal(t, "fatal", StatusFatal.String())
}

func TestConsoleFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithColor(false), WithSummary(true))
	for _, e := range sampleEntries() {
		f.FormatEntry(e)
	}
	require.NoError(t, f.Flush(5*time.Millisecond))

	out := buf.String()
	assert.Contains(t, out, "✓ a (created __snapshots__/a.snap)")
	assert.Contains(t, out, "✗ b\n- New content\n+ Old content")
	assert.Contains(t, out, "✗ c\n  FATAL: boom")
	assert.Contains(t, out, "- d (skipped)")
	assert.Contains(t, out, "1 passed, 1 failed, 1 fatal, 1 skipped")
}

func TestConsoleFormatter_NoSummary(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithColor(false))
	f.FormatEntry(sampleEntries()[0])
	require.NoError(t, f.Flush(0))
	assert.NotContains(t, buf.String(), "passed")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))
	for _, e := range sampleEntries() {
		f.FormatEntry(e)
	}
	require.NoError(t, f.Flush(time.Second))

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, 4, out.Summary.Total)
	assert.Equal(t, 1, out.Summary.Passed)
	assert.Equal(t, 1, out.Summary.Skipped)
	require.Len(t, out.Snapshots, 4)
	assert.True(t, out.Snapshots[0].Created)
	assert.Equal(t, "failed", out.Snapshots[1].Status)
	assert.Contains(t, out.Snapshots[1].Message, "+ Old content")
	assert.Empty(t, out.Snapshots[0].Message)
	assert.Equal(t, float64(1000), out.Duration)
}

func TestJUnitFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJUnitFormatter(JUnitWithWriter(&buf))
	for _, e := range sampleEntries() {
		f.FormatEntry(e)
	}
	require.NoError(t, f.Flush(time.Second))

	assert.True(t, strings.HasPrefix(buf.String(), "<?xml"))

	var suite JUnitTestSuite
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &suite))
	assert.Equal(t, 4, suite.Tests)
	assert.Equal(t, 1, suite.Failures)
	assert.Equal(t, 1, suite.Errors)
	assert.Equal(t, 1, suite.Skipped)
	require.Len(t, suite.TestCases, 4)
	assert.Nil(t, suite.TestCases[0].Failure)
	require.NotNil(t, suite.TestCases[1].Failure)
	assert.Contains(t, suite.TestCases[1].Failure.Content, "- New content")
	require.NotNil(t, suite.TestCases[2].Error)
	assert.Equal(t, "boom", suite.TestCases[2].Error.Message)
}

func TestTAPFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewTAPFormatter(TAPWithWriter(&buf))
	for _, e := range sampleEntries() {
		f.FormatEntry(e)
	}
	require.NoError(t, f.Flush(0))

	out := buf.String()
	assert.Contains(t, out, "TAP version 13\n1..4\n")
	assert.Contains(t, out, "ok 1 - a\n")
	assert.Contains(t, out, "not ok 2 - b\n  ---\n  diff: |\n    - New content\n    + Old content\n")
	assert.Contains(t, out, "not ok 3 - c\n")
	assert.Contains(t, out, `message: "FATAL: boom"`)
	assert.Contains(t, out, "ok 4 - d # SKIP not run")
}

func TestNewFormatter(t *testing.T) {
	var buf bytes.Buffer
	for _, name := range Formats {
		f, err := NewFormatter(name, &buf, false)
		require.NoError(t, err, name)
		assert.NotNil(t, f)
	}

	f, err := NewFormatter("JUnit", &buf, false)
	require.NoError(t, err)
	assert.IsType(t, &JUnitFormatter{}, f)

	_, err = NewFormatter("xml", &buf, false)
	assert.Error(t, err)
}

func TestEscapeYAML(t *testing.T) {
	assert.Equal(t, "plain", escapeYAML("plain"))
	assert.Equal(t, `"a: \"b\"\nc"`, escapeYAML("a: \"b\"\nc"))
}
