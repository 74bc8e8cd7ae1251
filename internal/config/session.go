package config

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const tempDirPrefix = "snip-"

// NewSession destroys the current session directory (if any), assigns a
// fresh unique name under TempRoot, and creates it. At most one session
// directory exists per Config.
func (c *Config) NewSession() error {
	if err := c.RemoveTempDir(); err != nil {
		return err
	}
	c.TempDir = newTempDirName(c.TempRoot)
	return os.MkdirAll(c.TempDir, 0o755)
}

// RemoveTempDir deletes the session directory and everything in it. A
// directory that does not exist is not an error.
func (c *Config) RemoveTempDir() error {
	if c.TempDir == "" {
		return nil
	}
	return os.RemoveAll(c.TempDir)
}

// SessionDirExists reports whether dir is a non-empty path naming an
// existing directory.
func SessionDirExists(dir string) bool {
	if dir == "" {
		return false
	}
	fi, err := os.Stat(dir)
	return err == nil && fi.IsDir()
}

func newTempDirName(root string) string {
	if root == "" {
		root = os.TempDir()
	}
	return filepath.Join(root, tempDirPrefix+uuid.NewString())
}
