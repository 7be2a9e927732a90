package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	d, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults{}, d)
}

func TestLoadParsesOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 42\ndir: /carriers\nk: 3\nn: 5\n"), 0o644))

	d, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, d.Seed)
	assert.Equal(t, uint16(42), *d.Seed)
	assert.Equal(t, "/carriers", d.Dir)
	require.NotNil(t, d.K)
	assert.Equal(t, 3, *d.K)
}
