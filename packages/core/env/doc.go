// Package env collects snapmatch settings from the environment.
//
// Settings come from two places:
//   - Process environment variables prefixed with SNAPMATCH_
//   - An optional .env file in the working directory
//
// Process variables take precedence over the .env file. Keys are returned
// without the prefix, e.g. SNAPMATCH_UPDATE becomes UPDATE.
package env
