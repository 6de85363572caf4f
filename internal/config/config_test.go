package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnv(t *testing.T) {
	ResetEnv()

	os.Setenv("FORGE_API_URL", "http://localhost:8000")
	os.Setenv("FORGE_HOME", "/tmp/forge-test")
	os.Setenv("FORGE_NO_COLOR", "1")
	defer func() {
		os.Unsetenv("FORGE_API_URL")
		os.Unsetenv("FORGE_HOME")
		os.Unsetenv("FORGE_NO_COLOR")
		ResetEnv()
	}()

	env := Env()

	assert.Equal(t, "http://localhost:8000", env.APIBaseURL)
	assert.Equal(t, "/tmp/forge-test", env.Home)
	assert.True(t, env.NoColor)
}

func TestEnvDefaults(t *testing.T) {
	ResetEnv()

	os.Unsetenv("FORGE_API_URL")
	os.Unsetenv("FORGE_HOME")
	defer ResetEnv()

	env := Env()

	assert.Equal(t, DefaultAPIBaseURL, env.APIBaseURL)
	assert.Contains(t, env.Home, ".forge")
	assert.False(t, env.NoColor)
}

func TestEnvSingleton(t *testing.T) {
	ResetEnv()
	defer ResetEnv()

	env1 := Env()
	env2 := Env()

	assert.Same(t, env1, env2)
}

func TestSessionFile(t *testing.T) {
	ResetEnv()
	os.Setenv("FORGE_HOME", "/tmp/forge-home")
	defer func() {
		os.Unsetenv("FORGE_HOME")
		ResetEnv()
	}()

	assert.Equal(t, filepath.Join("/tmp/forge-home", "session.json"), SessionFile())
}

func TestPath(t *testing.T) {
	ResetEnv()
	os.Setenv("FORGE_HOME", "/tmp/forge-home")
	defer func() {
		os.Unsetenv("FORGE_HOME")
		ResetEnv()
	}()

	assert.Equal(t, filepath.Join("/tmp/forge-home", "logs", "audit.jsonl"), Path("logs", "audit.jsonl"))
}

func TestGetEnvDefault(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		envVal   string
		fallback string
		want     string
	}{
		{"env set", "FORGE_TEST_KEY", "value", "default", "value"},
		{"env empty", "FORGE_TEST_KEY", "", "default", "default"},
		{"env not set", "FORGE_TEST_KEY_NOTSET", "", "fallback", "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envVal != "" {
				os.Setenv(tt.key, tt.envVal)
				defer os.Unsetenv(tt.key)
			}
			got := getEnvDefault(tt.key, tt.fallback)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "dir")

	err := EnsureDir(dir)
	assert.NoError(t, err)

	info, err := os.Stat(dir)
	assert.NoError(t, err)
	assert.True(t, info.IsDir())

	// Idempotent
	assert.NoError(t, EnsureDir(dir))
}
