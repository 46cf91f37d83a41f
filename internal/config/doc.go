// Package config holds the probe settings and layers them from defaults,
// a YAML file, the environment (including a .env file) and command line flags.
package config
