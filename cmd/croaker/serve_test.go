// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ashbuk/croaker/internal/logger"
	"github.com/ashbuk/croaker/internal/testutils"
)

func testLogger() logger.Logger {
	return logger.NewDefaultLogger(logger.ErrorLevel)
}

func TestLoadCleanupPrompt_MissingFileLogsWarning(t *testing.T) {
	mock := testutils.NewMockLogger()

	got := loadCleanupPrompt(mock, filepath.Join(t.TempDir(), "missing.txt"))

	if got != defaultCleanupPrompt {
		t.Errorf("loadCleanupPrompt(missing) = %q, want default prompt", got)
	}

	found := false
	for _, msg := range mock.GetMessages() {
		if strings.Contains(msg, "unreadable") {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("loadCleanupPrompt(missing) did not log a warning, got messages: %v", mock.GetMessages())
	}
}

func TestLoadCleanupPrompt_EmptyPathReturnsDefault(t *testing.T) {
	got := loadCleanupPrompt(testLogger(), "")
	if got != defaultCleanupPrompt {
		t.Errorf("loadCleanupPrompt(\"\") = %q, want default prompt", got)
	}
}

func TestLoadCleanupPrompt_MissingFileReturnsDefault(t *testing.T) {
	got := loadCleanupPrompt(testLogger(), filepath.Join(t.TempDir(), "missing.txt"))
	if got != defaultCleanupPrompt {
		t.Errorf("loadCleanupPrompt(missing) = %q, want default prompt", got)
	}
}

func TestLoadCleanupPrompt_ReadsFileContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.txt")
	if err := os.WriteFile(path, []byte("  Tidy this transcript.  \n"), 0o600); err != nil {
		t.Fatalf("write prompt file: %v", err)
	}

	got := loadCleanupPrompt(testLogger(), path)
	if got != "Tidy this transcript." {
		t.Errorf("loadCleanupPrompt(path) = %q, want trimmed file content", got)
	}
}

func TestLoadCleanupPrompt_BlankFileReturnsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blank.txt")
	if err := os.WriteFile(path, []byte("   \n"), 0o600); err != nil {
		t.Fatalf("write blank prompt file: %v", err)
	}

	got := loadCleanupPrompt(testLogger(), path)
	if got != defaultCleanupPrompt {
		t.Errorf("loadCleanupPrompt(blank file) = %q, want default prompt", got)
	}
}

func TestParseServeOptions_Defaults(t *testing.T) {
	opts, err := parseServeOptions(nil)
	if err != nil {
		t.Fatalf("parseServeOptions(nil) error: %v", err)
	}
	if opts.configFile != "" || opts.debug {
		t.Errorf("parseServeOptions(nil) = %+v, want zero value", opts)
	}
}

func TestParseServeOptions_Flags(t *testing.T) {
	opts, err := parseServeOptions([]string{"-config", "/tmp/x.toml", "-debug"})
	if err != nil {
		t.Fatalf("parseServeOptions error: %v", err)
	}
	if opts.configFile != "/tmp/x.toml" || !opts.debug {
		t.Errorf("parseServeOptions(...) = %+v, want configFile=/tmp/x.toml debug=true", opts)
	}
}

func TestAdjustPathsForAppImage_NoEnvReturnsInput(t *testing.T) {
	t.Setenv("APPIMAGE", "")
	got := adjustPathsForAppImage(testLogger(), "/a/b/config.toml")
	if got != "/a/b/config.toml" {
		t.Errorf("adjustPathsForAppImage with no APPIMAGE = %q, want input unchanged", got)
	}
}

func TestAdjustPathsForFlatpak_NoEnvReturnsInput(t *testing.T) {
	t.Setenv("FLATPAK_ID", "")
	got := adjustPathsForFlatpak(testLogger(), "/a/b/config.toml")
	if got != "/a/b/config.toml" {
		t.Errorf("adjustPathsForFlatpak with no FLATPAK_ID = %q, want input unchanged", got)
	}
}
