// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package utils

import (
	"os"
	"path/filepath"

	"github.com/ashbuk/croaker/config"
)

const (
	// DefaultSocketFileName is the default IPC socket filename.
	DefaultSocketFileName = "croaker.sock"
)

// GetDefaultSocketPath returns the default IPC socket path: spec.md §6
// places it at $XDG_CACHE_HOME/croaker/croaker.sock, falling back to
// $XDG_RUNTIME_DIR (tmpfs, cleared on reboot) when the cache directory
// cannot be resolved or created.
func GetDefaultSocketPath() string {
	if cacheDir, err := config.EnsureCacheDir(); err == nil {
		return filepath.Join(cacheDir, DefaultSocketFileName)
	}

	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return filepath.Join(runtimeDir, DefaultSocketFileName)
	}

	return filepath.Join(os.TempDir(), DefaultSocketFileName)
}
