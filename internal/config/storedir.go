package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/textbeads/textbeads/internal/types"
)

// DefaultStoreDirName is the store directory's conventional name.
const DefaultStoreDirName = ".textbeads"

// ResolveStoreDir locates the store directory: an explicit flag value
// wins, then EnvStoreDir, then EnvDBPath's directory, then walking
// upward from the working directory looking for a DefaultStoreDirName
// directory. A caller that wants to create a new store (bd init) should
// not call this; it is for every other command that expects one to
// already exist.
func ResolveStoreDir(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if v := os.Getenv(EnvStoreDir); v != "" {
		return v, nil
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		return filepath.Dir(v), nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("%w: determine working directory: %v", types.ErrIO, err)
	}

	dir := cwd
	for {
		candidate := filepath.Join(dir, DefaultStoreDirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%w: no %s directory found in %s or any parent", types.ErrNotFound, DefaultStoreDirName, cwd)
}
