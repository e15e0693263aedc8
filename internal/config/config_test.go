package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSecret_SecretsFileWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.env")
	require.NoError(t, os.WriteFile(path, []byte("GOOGLE_API_KEY=from-file\n"), 0o600))
	t.Setenv("GOOGLE_API_KEY", "from-env")

	assert.Equal(t, "from-file", ResolveSecret(path, "GOOGLE_API_KEY"))
}

func TestResolveSecret_FallsBackToEnv(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", " from-env ")

	assert.Equal(t, "from-env", ResolveSecret(filepath.Join(t.TempDir(), "missing.env"), "GOOGLE_API_KEY"))
}

func TestResolveSecret_Missing(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")

	assert.Empty(t, ResolveSecret("", "GOOGLE_API_KEY"))
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("TEST_DURATION", "90s")
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_INT", "not-a-number")

	assert.Equal(t, 90*time.Second, getEnvAsDuration("TEST_DURATION", time.Second))
	assert.True(t, getEnvAsBool("TEST_BOOL", false))
	assert.Equal(t, 7, getEnvAsInt("TEST_INT", 7))
	assert.Equal(t, "fallback", getEnv("TEST_UNSET_KEY_FOR_CONFIG", "fallback"))
}
