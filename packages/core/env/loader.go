package env

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Prefix marks the environment variables read by snapmatch.
const Prefix = "SNAPMATCH_"

// Load returns the prefixed settings from the .env file in dir and the
// process environment, with the process environment winning.
func Load(dir string) (map[string]string, error) {
	result := make(map[string]string)

	fileVars, err := LoadDotEnv(filepath.Join(dir, DotEnvFile))
	switch {
	case err == nil:
		for k, v := range Strip(fileVars, Prefix) {
			result[k] = v
		}
	case !errors.Is(err, fs.ErrNotExist):
		return nil, err
	}

	for k, v := range LoadSystemEnv(Prefix) {
		result[k] = v
	}
	return result, nil
}

// LoadSystemEnv returns process environment variables whose name starts
// with prefix, keyed by the remainder of the name.
func LoadSystemEnv(prefix string) map[string]string {
	vars := make(map[string]string)
	for _, e := range os.Environ() {
		key, value, ok := strings.Cut(e, "=")
		if ok {
			vars[key] = value
		}
	}
	return Strip(vars, prefix)
}

// Strip keeps the entries of vars whose key starts with prefix and removes
// the prefix from their keys.
func Strip(vars map[string]string, prefix string) map[string]string {
	result := make(map[string]string)
	for k, v := range vars {
		if name, ok := strings.CutPrefix(k, prefix); ok && name != "" {
			result[name] = v
		}
	}
	return result
}
