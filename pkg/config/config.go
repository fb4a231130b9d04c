// Package config gathers the runtime settings of savebox from the
// environment. Command-line flags override the values read here.
package config

import (
	"os"
	"strconv"

	"github.com/provide-io/savebox/go/savebox/internal/workenv"
	"github.com/provide-io/savebox/go/savebox/pkg/logging"
)

const (
	// DefaultChecksumSalt is appended to the canonical record text before hashing
	DefaultChecksumSalt = "savebox-record-v1"

	// DefaultListenAddr matches the port the desktop client talks to
	DefaultListenAddr = "localhost:3005"

	// DefaultMaxAbilityAttempts bounds the personality search of ChangeAbility
	DefaultMaxAbilityAttempts = 1 << 22
)

// Config holds the settings shared by the CLI, the server and the session
type Config struct {
	DataDir            string
	ProfilesFile       string
	ChecksumSalt       string
	LogLevel           string
	ListenAddr         string
	MaxAbilityAttempts int
}

// Default returns a Config populated with built-in defaults only
func Default() Config {
	return Config{
		DataDir:            workenv.GetDataRoot(),
		ChecksumSalt:       DefaultChecksumSalt,
		LogLevel:           "warn",
		ListenAddr:         DefaultListenAddr,
		MaxAbilityAttempts: DefaultMaxAbilityAttempts,
	}
}

// FromEnv returns the defaults overridden by SAVEBOX_* environment variables
func FromEnv() Config {
	cfg := Default()
	cfg.LogLevel = logging.GetLogLevel()

	if v := os.Getenv("SAVEBOX_PROFILES"); v != "" {
		cfg.ProfilesFile = v
	}
	if v := os.Getenv("SAVEBOX_CHECKSUM_SALT"); v != "" {
		cfg.ChecksumSalt = v
	}
	if v := os.Getenv("SAVEBOX_LISTEN"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("SAVEBOX_MAX_ABILITY_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxAbilityAttempts = n
		}
	}

	return cfg
}
