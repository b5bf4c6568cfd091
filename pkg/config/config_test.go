package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a", "b"}, CSV(" a , ,b,"))
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("CFG_STR", "  value ")
	t.Setenv("CFG_INT", "42")
	t.Setenv("CFG_BADINT", "forty")
	t.Setenv("CFG_DUR", "90m")
	t.Setenv("CFG_SECS", "30")
	t.Setenv("CFG_BADDUR", "soon")

	assert.Equal(t, "value", EnvDefault("CFG_STR", "def"))
	assert.Equal(t, "def", EnvDefault("CFG_MISSING", "def"))
	assert.Equal(t, 42, EnvIntDefault("CFG_INT", 1))
	assert.Equal(t, 1, EnvIntDefault("CFG_BADINT", 1))
	assert.Equal(t, 90*time.Minute, EnvDurationDefault("CFG_DUR", time.Hour))
	assert.Equal(t, 30*time.Second, EnvDurationDefault("CFG_SECS", time.Hour))
	assert.Equal(t, time.Hour, EnvDurationDefault("CFG_BADDUR", time.Hour))
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("CFG_FROM_FILE=yes\nCFG_PRESET=file\n"), 0o600))

	t.Setenv("CFG_PRESET", "env")
	t.Setenv("CFG_FROM_FILE", "")
	require.NoError(t, os.Unsetenv("CFG_FROM_FILE"))

	errs := LoadDotEnv(filepath.Join(dir, "missing.env"), path)
	assert.Empty(t, errs)
	assert.Equal(t, "yes", os.Getenv("CFG_FROM_FILE"))
	assert.Equal(t, "env", os.Getenv("CFG_PRESET"), "process env wins over the file")
}

func TestRequireNonEmpty(t *testing.T) {
	assert.Error(t, RequireNonEmpty("", "X"))
	assert.NoError(t, RequireNonEmpty("v", "X"))
	assert.Error(t, RequireNonEmptyBytes(nil, "X"))
	assert.NoError(t, RequireNonEmptyBytes([]byte("v"), "X"))
}
