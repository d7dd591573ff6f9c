// Package template wraps rendered content into the document shape stored in
// a snapshot file.
//
// Supported kinds:
//   - None: content is stored unchanged
//   - HTML: content is embedded into a full page with a heading naming the
//     test, then canonicalized so semantically equal markup compares equal
//   - JSON: content is validated and pretty-printed with sorted keys
package template
