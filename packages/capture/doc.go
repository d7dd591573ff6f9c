// Package capture runs callbacks while capturing their error output.
//
// While a callback runs, everything written to os.Stderr, the standard
// library's default logger and the logrus standard logger is captured and
// kept away from the terminal. The matchers built on top check whether the
// callback raised (returned an error or panicked) and how many messages it
// produced:
//   - ThrowsSilently: passes if the callback raised
//   - SucceedsWithMessages: passes if it did not raise and wrote messages
//   - SucceedsWithoutMessages: passes if it did not raise and wrote nothing
package capture
