// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package inject

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashbuk/croaker/internal/logger"
	"github.com/ashbuk/croaker/internal/session"
)

func newInjectorForTest() (*Injector, *[]string, *bool) {
	var writes []string
	clip := &clipboardStep{
		writeAll: func(s string) error { writes = append(writes, s); return nil },
		readAll:  func() (string, error) { return "", nil },
	}
	typed := false
	typer := &typist{
		cfg:     allowAllConfig("xdotool"),
		lookup:  func(string) (string, error) { return "xdotool", nil },
		runArgs: func(ctx context.Context, name string, args ...string) error { return nil },
		chain:   []typeTool{toolXdotool},
	}
	injector := &Injector{clip: clip, typer: typer, log: logger.NewDefaultLogger(logger.ErrorLevel)}
	return injector, &writes, &typed
}

func TestInjector_Inject_ClipboardModeCopiesOnly(t *testing.T) {
	inj, writes, _ := newInjectorForTest()
	err := inj.Inject(context.Background(), "hello", session.Clipboard)
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, *writes)
}

func TestInjector_Inject_DirectModeTypesWithoutTouchingClipboard(t *testing.T) {
	inj, writes, _ := newInjectorForTest()
	err := inj.Inject(context.Background(), "hello", session.Direct)
	require.NoError(t, err)
	assert.Empty(t, *writes)
}

func TestInjector_Inject_DirectModeFallsBackToClipboardOnTypeFailure(t *testing.T) {
	inj, writes, _ := newInjectorForTest()
	inj.typer.lookup = func(string) (string, error) { return "", errors.New("not found") }

	err := inj.Inject(context.Background(), "hello", session.Direct)
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, *writes)
}

func TestInjector_Inject_DirectModeFailsWhenClipboardFallbackAlsoFails(t *testing.T) {
	inj, _, _ := newInjectorForTest()
	inj.typer.lookup = func(string) (string, error) { return "", errors.New("not found") }
	inj.clip.writeAll = func(string) error { return errors.New("no clipboard tool") }

	err := inj.Inject(context.Background(), "hello", session.Direct)
	assert.Error(t, err)
}

func TestInjector_Inject_BothModeCopiesThenPastes(t *testing.T) {
	inj, writes, _ := newInjectorForTest()
	err := inj.Inject(context.Background(), "hello", session.Both)
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, *writes)
}

func TestInjector_Inject_BothModeSucceedsWhenOnlyPasteFails(t *testing.T) {
	inj, writes, _ := newInjectorForTest()
	inj.typer.runArgs = func(ctx context.Context, name string, args ...string) error {
		return errors.New("paste failed")
	}

	err := inj.Inject(context.Background(), "hello", session.Both)
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, *writes)
}

func TestInjector_Inject_BothModeFailsWhenClipboardAndPasteBothFail(t *testing.T) {
	inj, _, _ := newInjectorForTest()
	inj.clip.writeAll = func(string) error { return errors.New("no clipboard tool") }
	inj.typer.runArgs = func(ctx context.Context, name string, args ...string) error {
		return errors.New("paste failed")
	}

	err := inj.Inject(context.Background(), "hello", session.Both)
	assert.Error(t, err)
}
