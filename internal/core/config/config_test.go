package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
app:
  http:
    port: 9090
session:
  secret: from-file
db:
  driver: sqlite
  dsn: test.db
`

func writeConfig(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(sample), 0o600))
	return p
}

func TestReadAppliesDefaultsAndFile(t *testing.T) {
	c, err := Read(writeConfig(t))
	require.NoError(t, err)

	assert.Equal(t, 9090, c.App.HTTP.Port)
	assert.Equal(t, "from-file", c.Session.Secret)
	assert.Equal(t, "sqlite", c.DB.Driver)
	assert.Equal(t, "bookreview_session", c.Session.CookieName)
	assert.Equal(t, 5, c.Upload.MaxImageMB)
	assert.Equal(t, int64(16), c.Limits.MaxBodyMB)
}

func TestReadEnvOverride(t *testing.T) {
	t.Setenv("APP_SESSION_SECRET", "from-env")
	t.Setenv("APP_DB_DSN", "other.db")

	c, err := Read(writeConfig(t))
	require.NoError(t, err)

	assert.Equal(t, "from-env", c.Session.Secret)
	assert.Equal(t, "other.db", c.DB.DSN)
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
