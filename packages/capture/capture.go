package capture

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"reflect"
	"runtime"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Callback is the code under test. Returning a non-nil error or panicking
// counts as raising.
type Callback func() error

// Outcome describes one captured callback run.
type Outcome struct {
	Raised   bool
	Err      error
	Messages []string
}

// The captured streams are process-wide, so runs are serialized.
var mu sync.Mutex

// Run invokes fn with its error output captured.
func Run(fn Callback) Outcome {
	mu.Lock()
	defer mu.Unlock()

	r, w, err := os.Pipe()
	if err != nil {
		// without a pipe only the loggers can be captured
		var buf bytes.Buffer
		restore := redirectLoggers(&buf)
		raised, cbErr := invoke(fn)
		restore()
		return Outcome{Raised: raised, Err: cbErr, Messages: splitMessages(buf.Bytes())}
	}

	done := make(chan []byte, 1)
	go func() {
		data, _ := io.ReadAll(r)
		done <- data
	}()

	origStderr := os.Stderr
	os.Stderr = w
	restore := redirectLoggers(w)

	raised, cbErr := invoke(fn)

	restore()
	os.Stderr = origStderr
	_ = w.Close()
	data := <-done
	_ = r.Close()

	return Outcome{Raised: raised, Err: cbErr, Messages: splitMessages(data)}
}

func redirectLoggers(w io.Writer) func() {
	origLog := log.Writer()
	log.SetOutput(w)

	std := logrus.StandardLogger()
	origLogrus := std.Out
	std.SetOutput(w)

	return func() {
		log.SetOutput(origLog)
		std.SetOutput(origLogrus)
	}
}

func invoke(fn Callback) (raised bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			raised = true
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	if err := fn(); err != nil {
		return true, err
	}
	return false, nil
}

func splitMessages(data []byte) []string {
	var messages []string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			messages = append(messages, line)
		}
	}
	return messages
}

// callbackName names fn for messages.
func callbackName(fn Callback) string {
	if fn == nil {
		return "<nil>"
	}
	if f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer()); f != nil {
		return f.Name()
	}
	return "<unknown>"
}
