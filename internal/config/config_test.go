package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults when no file exists", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "data", cfg.Data.Dir)
	})

	t.Run("yaml file values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(
			"data:\n  dir: /srv/oma\nwikidata:\n  api_url: http://localhost/w/api.php\n"), 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "/srv/oma", cfg.Data.Dir)
		assert.Equal(t, "http://localhost/w/api.php", cfg.Wikidata.APIURL)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("wikidata:\n  user: from-file\n"), 0o644))
		t.Setenv("WDUSER", "from-env")
		t.Setenv("WDPASS", "secret")
		t.Setenv("OMABOT_DATA_DIR", "/tmp/omabot")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.Wikidata.User)
		assert.Equal(t, "secret", cfg.Wikidata.Password)
		assert.Equal(t, "/tmp/omabot", cfg.Data.Dir)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("data: [unclosed"), 0o644))
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})
}

func TestRequireWriteCredentials(t *testing.T) {
	var cfg Config
	assert.Error(t, cfg.RequireWriteCredentials())

	cfg.Wikidata.User = "bot"
	assert.Error(t, cfg.RequireWriteCredentials(), "password still missing")

	cfg.Wikidata.Password = "pw"
	assert.NoError(t, cfg.RequireWriteCredentials())
}
