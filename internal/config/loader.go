package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFile is looked up in the current directory.
	DefaultConfigFile = ".siteprobe.yaml"

	// XDGConfigFile is looked up in XDGConfigDir.
	XDGConfigFile = "config.yaml"

	// DefaultEnvFile is read for SITEPROBE_* variables when present.
	DefaultEnvFile = ".env"

	envPrefix = "SITEPROBE_"
)

// LookupFunc resolves an environment variable, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Load builds the configuration from defaults, the config file and the environment.
// A missing configPath yields ErrConfigNotFound; a missing implicit file is ignored.
func Load(configPath string) (*Config, error) {
	cfg := NewConfig()

	path := FindConfigFile(configPath)
	if path == "" && configPath != "" {
		return nil, fmt.Errorf("%s: %w", configPath, ErrConfigNotFound)
	}

	if path != "" {
		if err := LoadConfigFile(path, cfg); err != nil {
			return nil, err
		}
	}

	lookup, err := EnvLookup(DefaultEnvFile)
	if err != nil {
		return nil, err
	}

	if err := ApplyEnv(cfg, lookup); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadConfigFile merges the YAML file at path into cfg. Keys absent from the file keep their value.
func LoadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return ErrConfigNotFound
		}

		return err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// FindConfigFile searches for the configuration file in the following order:
// the explicit configPath, ./.siteprobe.yaml, then $XDG_CONFIG_HOME/siteprobe/config.yaml.
// It returns an empty string when nothing is found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		return ""
	}

	candidates := []string{DefaultConfigFile, filepath.Join(XDGConfigDir(), XDGConfigFile)}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}

// EnvLookup returns a lookup that prefers the process environment and falls back
// to the variables of the given .env files. Missing files are skipped.
func EnvLookup(envFiles ...string) (LookupFunc, error) {
	fileVars := map[string]string{}

	for _, envFile := range envFiles {
		vars, err := godotenv.Read(envFile)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}

			return nil, fmt.Errorf("read %s: %w", envFile, err)
		}

		for key, value := range vars {
			if _, ok := fileVars[key]; !ok {
				fileVars[key] = value
			}
		}
	}

	return func(key string) (string, bool) {
		if value, ok := os.LookupEnv(key); ok {
			return value, true
		}

		value, ok := fileVars[key]

		return value, ok
	}, nil
}

// ApplyEnv overrides cfg with SITEPROBE_* variables.
// Unparsable page and user counts are ignored so the previous value stays in effect.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	if value, ok := lookupTrimmed(lookup, "URL"); ok {
		cfg.URL = value
	}

	if value, ok := lookupTrimmed(lookup, "PAGES"); ok {
		if pages, err := strconv.Atoi(value); err == nil {
			cfg.Pages = pages
		}
	}

	if value, ok := lookupTrimmed(lookup, "USERS"); ok {
		if users, err := strconv.Atoi(value); err == nil {
			cfg.Users = users
		}
	}

	if value, ok := lookupTrimmed(lookup, "BATCH_SIZE"); ok {
		size, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%sBATCH_SIZE: %w", envPrefix, err)
		}

		cfg.BatchSize = size
	}

	durations := []struct {
		key    string
		target *time.Duration
	}{
		{key: "TIMEOUT", target: &cfg.Timeout},
		{key: "TARGET_LATENCY", target: &cfg.TargetLatency},
		{key: "CRAWL_DELAY", target: &cfg.CrawlDelay},
	}

	for _, d := range durations {
		value, ok := lookupTrimmed(lookup, d.key)
		if !ok {
			continue
		}

		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, d.key, err)
		}

		*d.target = parsed
	}

	if value, ok := lookupTrimmed(lookup, "USER_AGENT"); ok {
		cfg.UserAgent = value
	}

	if value, ok := lookupTrimmed(lookup, "FORMAT"); ok {
		cfg.Format = strings.ToLower(value)
	}

	if value, ok := lookupTrimmed(lookup, "OUTPUT"); ok {
		cfg.Output = value
	}

	if value, ok := lookupTrimmed(lookup, "VERBOSE"); ok {
		verbose, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%sVERBOSE: %w", envPrefix, err)
		}

		cfg.Verbose = verbose
	}

	return nil
}

func lookupTrimmed(lookup LookupFunc, name string) (string, bool) {
	value, ok := lookup(envPrefix + name)
	if !ok {
		return "", false
	}

	value = strings.TrimSpace(value)

	return value, value != ""
}
