// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package inject

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"

	"github.com/ashbuk/croaker/config"
)

// clipboardStep implements the clipboard-copy leg of the strategy table.
// Grounded on output/clipboard_outputter.go's ClipboardOutputter, but
// adapted from that file's hand-rolled xclip/wl-copy subprocess invocation
// to github.com/atotto/clipboard, a direct dependency the teacher's go.mod
// already lists but never wires to anything — atotto/clipboard already
// picks xclip/wl-copy/xsel under the hood per display server, so it
// subsumes clipboard_outputter.go's tool-selection switch without a
// hand-rolled subprocess per call.
type clipboardStep struct {
	restore     bool
	restoreWait time.Duration
	readAll     func() (string, error)
	writeAll    func(string) error
}

func newClipboardStep(cfg *config.Config) *clipboardStep {
	return &clipboardStep{
		restore:     cfg.Output.ClipboardRestore,
		restoreWait: 200 * time.Millisecond,
		readAll:     clipboard.ReadAll,
		writeAll:    clipboard.WriteAll,
	}
}

// copy writes text to the system clipboard. When restore is enabled, the
// prior clipboard contents are captured first and restored on a short
// delay so the copy doesn't destroy the user's existing selection.
func (c *clipboardStep) copy(text string) error {
	var prior string
	havePrior := false
	if c.restore {
		if p, err := c.readAll(); err == nil {
			prior = p
			havePrior = true
		}
	}

	if err := c.writeAll(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}

	if c.restore && havePrior {
		go func() {
			time.Sleep(c.restoreWait)
			_ = c.writeAll(prior)
		}()
	}

	return nil
}
