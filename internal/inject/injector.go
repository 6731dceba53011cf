// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package inject implements the TextInjector component: it delivers
// recognized text to the user's focused window via clipboard copy and/or
// simulated keystrokes, with per-compositor strategy selection and
// fallbacks.
//
// Grounded on output/{clipboard_outputter.go,type_outputter.go,combined_outputter.go,factory.go}
// (the root-level, app-wired generation of this package — init_components.go
// calls output.GetOutputterFromConfig, the output/outputters+output/factory+
// output/interfaces subpackage tree is an unwired parallel generation and is
// dropped, matching the disposition already applied to config/ and audio/).
// The three-outputter split (clipboard-only / type-only / combined) is kept;
// what changes is the strategy table: spec.md §4.4 demands an ordered
// fallback chain per OutputMode rather than a single fixed tool, and a
// clipboard-restore step the teacher's ClipboardOutputter never had.
package inject

import (
	"context"
	"errors"
	"time"

	"github.com/ashbuk/croaker/config"
	"github.com/ashbuk/croaker/internal/logger"
	"github.com/ashbuk/croaker/internal/platform"
	"github.com/ashbuk/croaker/internal/session"
)

// Injector implements internal/session.TextInjector.
type Injector struct {
	clip  *clipboardStep
	typer *typist
	log   logger.Logger
}

// New builds an Injector from configuration. The typing-tool chain is
// ordered by the current display-server environment: Wayland sessions try
// wtype, then ydotool, then xdotool; all other sessions try xdotool, then
// wtype, then ydotool.
func New(cfg *config.Config, log logger.Logger) *Injector {
	env := platform.DetectEnvironment()
	return &Injector{
		clip:  newClipboardStep(cfg),
		typer: newTypist(cfg, env),
		log:   log,
	}
}

// Inject delivers text per mode's strategy table. It fails only when every
// applicable step in the chain fails.
func (i *Injector) Inject(ctx context.Context, text string, mode session.OutputMode) error {
	switch mode {
	case session.Clipboard:
		return i.clip.copy(text)

	case session.Direct:
		if err := i.typer.typeText(ctx, text); err == nil {
			return nil
		}
		// Step 3 fallback: copy to clipboard and tell the user to paste
		// manually instead of failing the session outright.
		if err := i.clip.copy(text); err != nil {
			return errors.New("direct injection failed and clipboard fallback also failed")
		}
		i.log.Warning("direct text injection unavailable, copied to clipboard for manual paste")
		return nil

	case session.Both:
		clipErr := i.clip.copy(text)
		pasteErr := i.typer.paste(ctx)
		if clipErr != nil && pasteErr != nil {
			return errors.New("clipboard copy and paste both failed")
		}
		if pasteErr != nil {
			i.log.Warning("paste step failed after clipboard copy succeeded, text ready for manual paste: %v", pasteErr)
		}
		return nil

	default:
		return i.clip.copy(text)
	}
}

// keystrokeDelay converts the configured inter-keystroke delay to a
// Duration; zero or a negative value selects the 5ms default.
func keystrokeDelay(ms int) time.Duration {
	if ms <= 0 {
		return 5 * time.Millisecond
	}
	return time.Duration(ms) * time.Millisecond
}
