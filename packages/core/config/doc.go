// Package config handles configuration loading and management for snapmatch.
//
// It provides functionality for:
//   - Loading configuration from .snapmatch.yaml, .snapmatch.yml or
//     .snapmatch.json files
//   - Default configuration values
//   - Merging command-line overrides on top of file settings
package config
