package maintenance

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBackupCopiesFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "ledger.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("not really sqlite"), 0o644))

	backupDir := filepath.Join(dir, "backups")
	got, err := Backup(dbPath, backupDir)
	require.NoError(t, err)

	data, err := os.ReadFile(got)
	require.NoError(t, err)
	require.Equal(t, "not really sqlite", string(data))

	// a second backup gets its own name
	again, err := Backup(dbPath, backupDir)
	require.NoError(t, err)
	require.NotEqual(t, got, again)
}

func TestBackupMissingSource(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	_, err := Backup(filepath.Join(dir, "nope.db"), filepath.Join(dir, "backups"))
	require.Error(t, err)
}

func TestResetRemovesSidecars(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "ledger.db")
	for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}

	require.NoError(t, Reset(dbPath))
	for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		_, err := os.Stat(p)
		require.True(t, os.IsNotExist(err))
	}

	// resetting an already-missing database is fine
	require.NoError(t, Reset(dbPath))
}
