package cmd

// Exit codes for snapmatch CLI
const (
	// ExitSuccess indicates all snapshots matched
	ExitSuccess = 0

	// ExitMismatch indicates one or more snapshots did not match
	ExitMismatch = 1

	// ExitFatal indicates a match could not be carried out (missing
	// directory, I/O or render failure)
	ExitFatal = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)
