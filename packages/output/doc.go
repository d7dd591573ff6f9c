// Package output provides formatters for reporting snapshot match results.
//
// Supported output formats:
//   - Console: Human-readable colored terminal output
//   - JSON: Machine-readable JSON output
//   - JUnit: JUnit XML format for CI integration
//   - TAP: Test Anything Protocol format
//
// Formatters receive entries one at a time and write their report on Flush.
// The console formatter writes each entry immediately.
package output
