// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package main

import (
	"path/filepath"
	"testing"

	"github.com/ashbuk/croaker/internal/ipc"
	"github.com/ashbuk/croaker/internal/logger"
)

func TestRunClientCommand_OkReplyExitsZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "croaker.sock")
	s := ipc.NewServer(path, logger.NewDefaultLogger(logger.ErrorLevel))
	s.Register("toggle", func(req ipc.Request) (ipc.Response, error) {
		return ipc.NewSuccessResponse("ok"), nil
	})
	if err := s.Start(); err != nil {
		t.Fatalf("start ipc server: %v", err)
	}
	defer s.Stop()

	code := runClientCommand("toggle", []string{"-socket", path})
	if code != 0 {
		t.Errorf("runClientCommand(toggle) = %d, want 0", code)
	}
}

func TestRunClientCommand_ErrorReplyExitsOne(t *testing.T) {
	path := filepath.Join(t.TempDir(), "croaker.sock")
	s := ipc.NewServer(path, logger.NewDefaultLogger(logger.ErrorLevel))
	s.Register("cancel", func(req ipc.Request) (ipc.Response, error) {
		return ipc.NewErrorResponse("busy: a session is already processing"), nil
	})
	if err := s.Start(); err != nil {
		t.Fatalf("start ipc server: %v", err)
	}
	defer s.Stop()

	code := runClientCommand("cancel", []string{"-socket", path})
	if code != 1 {
		t.Errorf("runClientCommand(cancel) = %d, want 1", code)
	}
}

func TestRunClientCommand_NoDaemonExitsTwo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent.sock")

	code := runClientCommand("status", []string{"-socket", path, "-timeout", "1"})
	if code != 2 {
		t.Errorf("runClientCommand(status) with no daemon = %d, want 2", code)
	}
}
