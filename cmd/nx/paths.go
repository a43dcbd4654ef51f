package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samcharles93/nxpack/internal/catalog"
)

// resolveContainer turns a command-line container argument into a file path.
// An existing file is used as given. Otherwise the argument is taken as a
// container name in dir, with or without the .nx extension.
func resolveContainer(arg, dir string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", errors.New("container path is required")
	}
	if st, err := os.Stat(arg); err == nil && !st.IsDir() {
		return filepath.Clean(arg), nil
	}

	dir = strings.TrimSpace(dir)
	if dir == "" {
		return "", fmt.Errorf("container %q not found; pass a file path or set --data-dir or %s", arg, envDataDir)
	}
	name := strings.TrimSuffix(arg, catalog.Ext)
	return catalog.New(dir, nil).Path(name)
}
