// Package config provides centralized configuration management.
// All FORGE_* environment lookups live here instead of scattered os.Getenv calls.
package config

import (
	"os"
	"path/filepath"
	"sync"
)

// DefaultAPIBaseURL is the deployed backend address. The register form in the
// original web client pointed at a local dev server; we treat the deployed
// host as the single default and let FORGE_API_URL override it (e.g. set
// FORGE_API_URL=http://localhost:8000 for local development).
const DefaultAPIBaseURL = "https://intellinote-backend.onrender.com"

// ForgeEnv holds all Forge environment variables.
type ForgeEnv struct {
	// APIBaseURL is the backend base address (FORGE_API_URL)
	APIBaseURL string

	// Home is the Forge home directory (FORGE_HOME, default ~/.forge)
	Home string

	// NoColor disables colored CLI output (FORGE_NO_COLOR)
	NoColor bool

	// AuditLog is an optional JSONL audit sink path (FORGE_AUDIT_LOG)
	AuditLog string
}

var (
	env     *ForgeEnv
	envOnce sync.Once
)

// Env returns the singleton environment configuration.
// Thread-safe, loads once on first call.
func Env() *ForgeEnv {
	envOnce.Do(func() {
		env = &ForgeEnv{
			APIBaseURL: getEnvDefault("FORGE_API_URL", DefaultAPIBaseURL),
			Home:       getEnvDefault("FORGE_HOME", defaultHome()),
			NoColor:    os.Getenv("FORGE_NO_COLOR") == "1",
			AuditLog:   os.Getenv("FORGE_AUDIT_LOG"),
		}
	})
	return env
}

// ResetEnv resets the cached environment (for testing).
func ResetEnv() {
	envOnce = sync.Once{}
	env = nil
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".forge")
}

// SessionFile returns the path of the persisted session record.
func SessionFile() string {
	return Path("session.json")
}

// Path returns a path under the Forge home directory.
func Path(parts ...string) string {
	allParts := append([]string{Env().Home}, parts...)
	return filepath.Join(allParts...)
}

// EnsureDir creates a directory if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
