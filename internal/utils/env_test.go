package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv_OverridesFromFile(t *testing.T) {
	t.Setenv("PHOTO_TEST_VALUE", "from-process")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PHOTO_TEST_VALUE=from-file\n"), 0o600))

	LoadEnv(path)
	assert.Equal(t, "from-file", os.Getenv("PHOTO_TEST_VALUE"))
}

func TestLoadEnv_IgnoresMissingFiles(t *testing.T) {
	t.Setenv("PHOTO_TEST_VALUE", "kept")

	LoadEnv(filepath.Join(t.TempDir(), "missing.env"))
	assert.Equal(t, "kept", os.Getenv("PHOTO_TEST_VALUE"))
}
