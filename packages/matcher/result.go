package matcher

import (
	"sync"
	"sync/atomic"
)

// Result is the verdict of one match attempt. The message is built lazily
// on the first call to Message.
type Result struct {
	Pass bool
	// Path of the snapshot file, empty if resolution never happened.
	Path string
	// Created is set when the snapshot did not exist before this attempt.
	Created bool
	// Updated is set when an existing snapshot was overwritten.
	Updated bool
	// Err holds the fatal error that ended the attempt, if any.
	Err error

	message     func() string
	messageOnce sync.Once
	messageText string
}

// NewResult creates a Result with a lazily computed message.
func NewResult(pass bool, message func() string) *Result {
	return &Result{Pass: pass, message: message}
}

// Message describes the result. For a passing result it explains why the
// negated assertion would fail.
func (r *Result) Message() string {
	r.messageOnce.Do(func() {
		if r.message != nil {
			r.messageText = r.message()
		}
	})
	return r.messageText
}

func fatalResult(err error) *Result {
	return &Result{
		Pass:    false,
		Err:     err,
		message: err.Error,
	}
}

// latch delivers exactly one Result to a buffered channel.
type latch struct {
	done atomic.Bool
	ch   chan *Result
}

func newLatch() *latch {
	return &latch{ch: make(chan *Result, 1)}
}

// resolve delivers r if nothing has been delivered yet and reports whether
// it did.
func (l *latch) resolve(r *Result) bool {
	if !l.done.CompareAndSwap(false, true) {
		return false
	}
	l.ch <- r
	close(l.ch)
	return true
}

func (l *latch) resolved() bool {
	return l.done.Load()
}
