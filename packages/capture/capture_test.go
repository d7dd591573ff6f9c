package capture

import (
	"errors"
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quiet() error { return nil }

func noisy() error {
	fmt.Fprintln(os.Stderr, "warning: deprecated option")
	return nil
}

func failing() error {
	fmt.Fprintln(os.Stderr, "boom happened")
	return errors.New("boom")
}

func panicking() error {
	panic("unexpected state")
}

func TestRun(t *testing.T) {
	tests := []struct {
		name     string
		fn       Callback
		raised   bool
		messages []string
	}{
		{name: "quiet", fn: quiet},
		{name: "stderr output", fn: noisy, messages: []string{"warning: deprecated option"}},
		{name: "error return", fn: failing, raised: true, messages: []string{"boom happened"}},
		{name: "panic", fn: panicking, raised: true},
		{
			name: "std logger",
			fn: func() error {
				log.Print("from log")
				return nil
			},
			messages: []string{"from log"},
		},
		{
			name: "logrus standard logger",
			fn: func() error {
				logrus.Error("from logrus")
				return nil
			},
			messages: []string{"from logrus"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Run(tt.fn)
			assert.Equal(t, tt.raised, out.Raised)
			require.Len(t, out.Messages, len(tt.messages))
			for i, msg := range tt.messages {
				assert.Contains(t, out.Messages[i], msg)
			}
		})
	}
}

func TestRun_RestoresStreams(t *testing.T) {
	stderr := os.Stderr
	logOut := log.Writer()
	logrusOut := logrus.StandardLogger().Out

	Run(failing)
	Run(panicking)

	assert.Same(t, stderr, os.Stderr)
	assert.Equal(t, logOut, log.Writer())
	assert.Equal(t, logrusOut, logrus.StandardLogger().Out)
}

func TestRun_PanicError(t *testing.T) {
	out := Run(panicking)
	require.Error(t, out.Err)
	assert.Contains(t, out.Err.Error(), "unexpected state")
}

func TestThrowsSilently(t *testing.T) {
	result := ThrowsSilently(failing)
	assert.True(t, result.Pass)
	assert.Contains(t, result.Message(), "capture.failing")
	assert.Contains(t, result.Message(), "to succeed")

	result = ThrowsSilently(quiet)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Message(), "to fail")
}

func TestSucceedsWithMessages(t *testing.T) {
	tests := []struct {
		name    string
		fn      Callback
		pass    bool
		message string
	}{
		{name: "messages", fn: noisy, pass: true, message: "to fail or at least not produce any output"},
		{name: "no messages", fn: quiet, pass: false, message: "to produce some output"},
		{name: "raised", fn: failing, pass: false, message: "but it failed with those errors:\nboom happened\nboom\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SucceedsWithMessages(tt.fn)
			assert.Equal(t, tt.pass, result.Pass)
			assert.Contains(t, result.Message(), tt.message)
		})
	}
}

func TestSucceedsWithoutMessages(t *testing.T) {
	tests := []struct {
		name    string
		fn      Callback
		pass    bool
		message string
	}{
		{name: "quiet", fn: quiet, pass: true, message: "to fail or at least produce some output"},
		{name: "messages", fn: noisy, pass: false, message: "to not produce any output"},
		{name: "panic", fn: panicking, pass: false, message: "to succeed, but it failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SucceedsWithoutMessages(tt.fn)
			assert.Equal(t, tt.pass, result.Pass)
			assert.Contains(t, result.Message(), tt.message)
		})
	}
}
