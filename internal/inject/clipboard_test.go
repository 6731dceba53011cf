// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package inject

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashbuk/croaker/config"
)

func TestClipboardStep_Copy_WritesText(t *testing.T) {
	c := newClipboardStep(&config.Config{})
	var written string
	c.writeAll = func(s string) error { written = s; return nil }
	c.readAll = func() (string, error) { return "", nil }

	require.NoError(t, c.copy("hello world"))
	assert.Equal(t, "hello world", written)
}

func TestClipboardStep_Copy_PropagatesWriteError(t *testing.T) {
	c := newClipboardStep(&config.Config{})
	c.writeAll = func(s string) error { return errors.New("no clipboard tool") }
	c.readAll = func() (string, error) { return "", nil }

	err := c.copy("hello")
	assert.Error(t, err)
}

func TestClipboardStep_Copy_RestoresPriorContentsAfterDelay(t *testing.T) {
	cfg := &config.Config{}
	cfg.Output.ClipboardRestore = true
	c := newClipboardStep(cfg)
	c.restoreWait = time.Millisecond

	var writes []string
	c.readAll = func() (string, error) { return "previous clip", nil }
	c.writeAll = func(s string) error { writes = append(writes, s); return nil }

	require.NoError(t, c.copy("new text"))

	require.Eventually(t, func() bool { return len(writes) == 2 }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"new text", "previous clip"}, writes)
}

func TestClipboardStep_Copy_SkipsRestoreWhenReadFails(t *testing.T) {
	cfg := &config.Config{}
	cfg.Output.ClipboardRestore = true
	c := newClipboardStep(cfg)
	c.restoreWait = time.Millisecond

	var writes []string
	c.readAll = func() (string, error) { return "", errors.New("empty clipboard") }
	c.writeAll = func(s string) error { writes = append(writes, s); return nil }

	require.NoError(t, c.copy("new text"))
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, []string{"new text"}, writes)
}
