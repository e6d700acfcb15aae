// Package maintenance holds boundary-level operations on the database file
// itself. Nothing here is covered by the ledger core's guarantees; callers
// close the database before invoking these.
package maintenance

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Backup copies the database file into dir under a timestamped, collision-proof
// name and returns the created path.
func Backup(dbPath, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}
	name := fmt.Sprintf("ledgerbook-%s-%s.db",
		time.Now().UTC().Format("20060102T150405"),
		uuid.NewString()[:8])
	dst := filepath.Join(dir, name)

	src, err := os.Open(dbPath)
	if err != nil {
		return "", fmt.Errorf("open database: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create backup: %w", err)
	}
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("copy database: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return dst, nil
}

// Reset deletes the database file and its WAL sidecars. Destructive and
// unrecoverable; the caller confirms first.
func Reset(dbPath string) error {
	for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", p, err)
		}
	}
	return nil
}
