package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv(t *testing.T) {
	t.Run("reads .env when present", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("COOPFARM_TEST_KEY=from-file\n"), 0600))
		t.Chdir(dir)

		loadEnv()
		assert.Equal(t, "from-file", os.Getenv("COOPFARM_TEST_KEY"))
		os.Unsetenv("COOPFARM_TEST_KEY")
	})

	t.Run("keeps running without .env", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("COOPFARM_TEST_PORT", ":9090")

		loadEnv()
		assert.Equal(t, ":9090", os.Getenv("COOPFARM_TEST_PORT"))
	})
}
