// Package config collects compiler settings from the environment.
//
// Every setting has a PYGO_* variable; command-line flags override the
// environment afterwards.
package config

import (
	"path/filepath"

	"github.com/xyproto/env/v2"

	"github.com/GriffinCanCode/pygo/pkg/logger"
)

// Config holds compiler configuration
type Config struct {
	LogLevel  string // PYGO_LOG_LEVEL
	LogFormat string // PYGO_LOG_FORMAT: text, json or auto
	LogFile   string // PYGO_LOG_FILE
	GoBinary  string // PYGO_GO
	BuildDir  string // PYGO_BUILD_DIR
	KeepBuild bool   // PYGO_KEEP_BUILD
	Verbose   bool   // PYGO_VERBOSE
}

// Load reads the configuration from the environment as it is now.
func Load() *Config {
	// env caches os.Environ on first use.
	env.Load()
	return &Config{
		LogLevel:  env.Str("PYGO_LOG_LEVEL", "warn"),
		LogFormat: env.Str("PYGO_LOG_FORMAT", "auto"),
		LogFile:   env.Str("PYGO_LOG_FILE"),
		GoBinary:  env.Str("PYGO_GO", "go"),
		BuildDir:  env.Str("PYGO_BUILD_DIR", filepath.Join(".", "_build")),
		KeepBuild: env.Bool("PYGO_KEEP_BUILD"),
		Verbose:   env.Bool("PYGO_VERBOSE"),
	}
}

// Logger returns the logger configuration. Verbose forces debug output.
func (c *Config) Logger() (logger.Config, error) {
	cfg := logger.DefaultConfig()
	level, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		return cfg, err
	}
	cfg.Level = level
	if c.Verbose {
		cfg.Level = logger.LevelDebug
	}
	cfg.Format = c.LogFormat
	cfg.LogFile = c.LogFile
	return cfg, nil
}
