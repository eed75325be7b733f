package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shaoshing/jscs-jsdoc/internal/existence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jsdoc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func clearEnv(t *testing.T) {
	for _, key := range []string{"JSDOC_ENFORCE_EXISTENCE", "JSDOC_EXCEPT", "JSDOC_VERBOSE", "JSDOC_DB"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
project:
  root: src
  exclude: ["dist/*"]
jsDoc:
  enforceExistence: exceptExports
  enforceExistenceExcept: [main, init]
  verbose: true
storage:
  path: history.db
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "src", cfg.Project.Root)
	assert.Equal(t, []string{"dist/*"}, cfg.Project.Exclude)
	assert.Equal(t, existence.ModeExceptExports, cfg.JSDoc.EnforceExistence.Mode)
	assert.Equal(t, "history.db", cfg.Storage.Path)

	opts := cfg.Options()
	assert.Equal(t, existence.ModeExceptExports, opts.EnforceExistence)
	assert.True(t, opts.Verbose)
	assert.Contains(t, opts.Except, "main")
	assert.Contains(t, opts.Except, "init")
	assert.Len(t, opts.Except, 2)
}

func TestLoadConfig_BooleanMode(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig(writeConfig(t, "jsDoc:\n  enforceExistence: true\n"))
	require.NoError(t, err)
	assert.Equal(t, existence.ModeAll, cfg.JSDoc.EnforceExistence.Mode)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.Project.Root)
	assert.Equal(t, existence.ModeAll, cfg.JSDoc.EnforceExistence.Mode)
	assert.Empty(t, cfg.Options().Except)
	assert.Empty(t, cfg.Storage.Path)
}

func TestLoadConfig_EmptyFile(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.Project.Root)
}

func TestLoadConfig_SchemaViolations(t *testing.T) {
	clearEnv(t)
	cases := map[string]string{
		"false mode":      "jsDoc:\n  enforceExistence: false\n",
		"unknown mode":    "jsDoc:\n  enforceExistence: always\n",
		"unknown option":  "jsDoc:\n  enforceExistance: true\n",
		"except not list": "jsDoc:\n  enforceExistenceExcept: main\n",
		"empty name":      "jsDoc:\n  enforceExistenceExcept: ['']\n",
		"duplicate names": "jsDoc:\n  enforceExistenceExcept: [a, a]\n",
		"unknown section": "reporter: checkstyle\n",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "schema validation")
		})
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JSDOC_ENFORCE_EXISTENCE", "exceptExports")
	t.Setenv("JSDOC_EXCEPT", "alpha, beta,,")
	t.Setenv("JSDOC_VERBOSE", "true")
	t.Setenv("JSDOC_DB", "env.db")

	cfg, err := LoadConfig(writeConfig(t, "jsDoc:\n  enforceExistence: true\n  enforceExistenceExcept: [main]\n"))
	require.NoError(t, err)

	assert.Equal(t, existence.ModeExceptExports, cfg.JSDoc.EnforceExistence.Mode)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.JSDoc.EnforceExistenceExcept)
	assert.True(t, cfg.JSDoc.Verbose)
	assert.Equal(t, "env.db", cfg.Storage.Path)
}

func TestLoadConfig_InvalidEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("JSDOC_ENFORCE_EXISTENCE", "sometimes")
	_, err := LoadConfig(writeConfig(t, ""))
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("JSDOC_VERBOSE", "loud")
	_, err = LoadConfig(writeConfig(t, ""))
	assert.Error(t, err)
}
