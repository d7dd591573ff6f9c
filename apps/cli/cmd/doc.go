// Package cmd implements the snapmatch CLI commands using Cobra.
//
// Available commands:
//   - check: Match one content file against a named snapshot
//   - verify: Match many content files concurrently
//   - diff: Show the first divergence between two files
//   - render: Print content after applying a template
//   - version: Show snapmatch version information
package cmd
