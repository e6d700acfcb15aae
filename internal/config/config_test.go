package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LEDGERBOOK_CONFIG", filepath.Join(t.TempDir(), "absent.toml"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Contains(t, cfg.Database.Path, "ledgerbook.db")
	require.Contains(t, cfg.Backup.Dir, "backups")
	require.Equal(t, "info", cfg.Log.Level)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LEDGERBOOK_CONFIG", filepath.Join(t.TempDir(), "absent.toml"))
	t.Setenv("LEDGERBOOK_DATABASE_PATH", "/tmp/elsewhere.db")
	t.Setenv("LEDGERBOOK_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "/tmp/elsewhere.db", cfg.Database.Path)
	require.Equal(t, "debug", cfg.Log.Level)
}
