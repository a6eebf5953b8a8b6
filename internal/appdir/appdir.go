// Package appdir locates and creates the files dkimkey keeps per user.
package appdir

import (
	"fmt"
	"os"
	"path/filepath"
)

// Name is the directory name used below the user config directory.
const Name = "dkimkey"

// ConfigDir returns the per-user config directory for dkimkey.
// Linux: $XDG_CONFIG_HOME/dkimkey  macOS: ~/Library/Application Support/dkimkey
// Windows: %AppData%/dkimkey
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("getting user config dir: %w", err)
	}
	return filepath.Join(base, Name), nil
}

// EnsureFile creates an empty file at path, and its parent directories,
// unless it already exists. New files are 0600 and directories 0700.
func EnsureFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return nil
		}
		return fmt.Errorf("creating config file: %w", err)
	}
	return f.Close()
}

// WriteFile replaces the contents of path with data. The data is written to
// a temporary file in the same directory and renamed over path, so readers
// never observe a partially written config.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // already renamed on success

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("setting permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
