package config

import (
	"fmt"
	"strconv"

	"github.com/abdul-hamid-achik/snapmatch/packages/core/env"
)

// LoadWithEnv loads the config file at path, or the one found in dir when
// path is empty, and applies SNAPMATCH_ settings from the environment and
// the .env file in dir on top of it.
func LoadWithEnv(path, dir string) (*Config, error) {
	var cfg *Config
	var err error
	if path != "" {
		cfg, err = loadConfigFromFile(path)
	} else {
		cfg, err = FindAndLoadConfig(dir)
	}
	if err != nil {
		return nil, err
	}

	vars, err := env.Load(dir)
	if err != nil {
		return nil, err
	}
	override, err := FromEnv(vars)
	if err != nil {
		return nil, err
	}

	cfg = cfg.Merge(override)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid environment settings: %w", err)
	}
	return cfg, nil
}

// FromEnv builds an override config from prefix-stripped environment
// settings such as UPDATE or DIFF_STEP. Unknown keys are ignored.
func FromEnv(vars map[string]string) (*Config, error) {
	cfg := &Config{}

	boolVar := func(key string) (*bool, error) {
		v, ok := vars[key]
		if !ok || v == "" {
			return nil, nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		return &b, nil
	}
	intVar := func(key string) (int, error) {
		v, ok := vars[key]
		if !ok || v == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		return n, nil
	}

	var err error
	if cfg.Update, err = boolVar("UPDATE"); err != nil {
		return nil, err
	}
	if cfg.Color, err = boolVar("COLOR"); err != nil {
		return nil, err
	}
	if cfg.NoColor, err = boolVar("NO_COLOR"); err != nil {
		return nil, err
	}
	if cfg.DiffStep, err = intVar("DIFF_STEP"); err != nil {
		return nil, err
	}
	if cfg.DiffWindow, err = intVar("DIFF_WINDOW"); err != nil {
		return nil, err
	}
	if cfg.Concurrency, err = intVar("CONCURRENCY"); err != nil {
		return nil, err
	}
	cfg.LogLevel = vars["LOG_LEVEL"]

	return cfg, nil
}
