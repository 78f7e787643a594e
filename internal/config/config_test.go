package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes into dir for the duration of the test, restoring the
// previous working directory on cleanup. (Equivalent to t.Chdir, which
// requires Go 1.24.)
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Errorf("restoring working directory: %v", err)
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	// Run from a temp dir so no configs/config.yaml or .env is picked up.
	chdir(t, t.TempDir())

	cfg := Load()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 60*time.Second, cfg.RenderTimeout())
	assert.Equal(t, "output", cfg.Output.Dir)
	assert.Equal(t, "invoices", cfg.Archive.Prefix)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.ArchiveEnabled())
}

func TestLoadEnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("RENDER_ENDPOINT", "https://example.execute-api.ap-south-1.amazonaws.com/prod/invoice")
	t.Setenv("RENDER_API_KEY", "test-key")
	t.Setenv("OUTPUT_DIR", "/tmp/invoices")
	t.Setenv("LOG_FORMAT", "pretty")

	cfg := Load()

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "https://example.execute-api.ap-south-1.amazonaws.com/prod/invoice", cfg.Render.Endpoint)
	assert.Equal(t, "test-key", cfg.Render.APIKey)
	assert.Equal(t, "/tmp/invoices", cfg.Output.Dir)
	assert.Equal(t, "pretty", cfg.Log.Format)
}

func TestArchiveEnabled(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ARCHIVE_ENDPOINT", "https://s3.ap-south-1.amazonaws.com")
	t.Setenv("ARCHIVE_ACCESS_KEY_ID", "AKIA_TEST")
	t.Setenv("ARCHIVE_ACCESS_KEY_SECRET", "secret")
	t.Setenv("ARCHIVE_BUCKET", "issued-invoices")

	cfg := Load()

	require.True(t, cfg.ArchiveEnabled())
	assert.Equal(t, "invoices", cfg.Archive.Prefix)
}
