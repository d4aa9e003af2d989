package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIHost+"/image/images/create-image", cfg.ImageAPIURL)
	assert.Equal(t, DefaultAPIHost+"/model/models/create-from-image", cfg.ModelAPIURL)
	assert.Equal(t, DefaultDatabasePath, cfg.DatabasePath)
	assert.Equal(t, DefaultItemsPerPage, cfg.ItemsPerPage)
	assert.False(t, cfg.Debug)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ASSETMESH_IMAGE_API_URL", "https://gen.example.com/image")
	t.Setenv("ASSETMESH_DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://gen.example.com/image", cfg.ImageAPIURL)
	assert.True(t, cfg.Debug)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assetmesh.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model_api_url: https://gen.example.com/model\nitems_per_page: 6\n"), 0o600))

	cfg, err := Load(func(o *Options) { o.ConfigFile = path })
	require.NoError(t, err)
	assert.Equal(t, "https://gen.example.com/model", cfg.ModelAPIURL)
	assert.Equal(t, 6, cfg.ItemsPerPage)
	assert.Equal(t, DefaultDatabasePath, cfg.DatabasePath)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(func(o *Options) { o.ConfigFile = filepath.Join(t.TempDir(), "nope.yaml") })
	assert.Error(t, err)
}

func TestLoad_InvalidItemsPerPage(t *testing.T) {
	t.Setenv("ASSETMESH_ITEMS_PER_PAGE", "0")
	_, err := Load()
	assert.Error(t, err)
}
