package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const (
	lockDirName = "locks"
	lockSuffix  = ".lock"
)

// lockPath returns the lock file guarding output. Locks live under
// lockDir, or the system temp directory when lockDir is empty, and are
// named after the absolute output path so nothing is left beside it.
func lockPath(lockDir, output string) (string, error) {
	abs, err := filepath.Abs(output)
	if err != nil {
		return "", err
	}
	if lockDir == "" {
		lockDir = filepath.Join(os.TempDir(), "monet")
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(lockDir, lockDirName, hex.EncodeToString(sum[:])+lockSuffix), nil
}

// writeOutput creates path with the contents produced by write. The data
// goes to a temporary file in the same directory that is renamed into place,
// and a lock under lockDir is held throughout so concurrent builds of the
// same artifact do not interleave.
func writeOutput(path, lockDir string, write func(*os.File) error) error {
	lp, err := lockPath(lockDir, path)
	if err != nil {
		return fmt.Errorf("failed to lock %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(lp), 0o755); err != nil {
		return fmt.Errorf("failed to lock %s: %w", path, err)
	}
	lock := flock.New(lp)
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock %s: %w", path, err)
	}
	defer lock.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move output into %s: %w", path, err)
	}
	return nil
}
