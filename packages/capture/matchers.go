package capture

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/snapmatch/packages/matcher"
)

// ThrowsSilently passes if fn raised. Its error output is suppressed.
func ThrowsSilently(fn Callback) *matcher.Result {
	out := Run(fn)
	name := callbackName(fn)

	return matcher.NewResult(out.Raised, func() string {
		expected := "fail"
		if out.Raised {
			expected = "succeed"
		}
		return fmt.Sprintf("expected callback %q to %s", name, expected)
	})
}

// SucceedsWithMessages passes if fn did not raise and wrote at least one
// error message.
func SucceedsWithMessages(fn Callback) *matcher.Result {
	out := Run(fn)
	name := callbackName(fn)
	pass := !out.Raised && len(out.Messages) > 0

	return matcher.NewResult(pass, func() string {
		switch {
		case pass:
			return fmt.Sprintf("Expected callback %q to fail or at least not produce any output", name)
		case out.Raised:
			return failedMessage(name, out)
		default:
			return fmt.Sprintf("Expected callback %q to produce some output", name)
		}
	})
}

// SucceedsWithoutMessages passes if fn did not raise and wrote no error
// messages.
func SucceedsWithoutMessages(fn Callback) *matcher.Result {
	out := Run(fn)
	name := callbackName(fn)
	pass := !out.Raised && len(out.Messages) == 0

	return matcher.NewResult(pass, func() string {
		switch {
		case pass:
			return fmt.Sprintf("Expected callback %q to fail or at least produce some output", name)
		case out.Raised:
			return failedMessage(name, out)
		default:
			return fmt.Sprintf("Expected callback %q to not produce any output", name)
		}
	})
}

func failedMessage(name string, out Outcome) string {
	lines := append([]string{}, out.Messages...)
	if out.Err != nil {
		lines = append(lines, out.Err.Error())
	}
	return fmt.Sprintf("Expected callback %q to succeed, but it failed with those errors:\n%s\n",
		name, strings.Join(lines, "\n"))
}
