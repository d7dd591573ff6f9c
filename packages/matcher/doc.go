// Package matcher implements named-snapshot assertions.
//
// A match renders content through a template, makes sure the snapshot
// directory exists, reads the stored snapshot (or writes it on the first run
// and in update-all mode) and compares the bytes on disk with the rendered
// content. Every outcome, including filesystem failures, is reported as a
// single Result:
//
//	m := matcher.New(nil, nil, matcher.WithUpdateMode(snapshot.Normal))
//	res := m.MatchNamedHTMLSnapshot(ctx, markup, "card", matcher.TestContext{
//		Label:    t.Name(),
//		TestFile: "card_test.go",
//	})
//	if !res.Pass {
//		t.Error(res.Message())
//	}
package matcher
