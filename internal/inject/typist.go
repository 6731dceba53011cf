// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package inject

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/ashbuk/croaker/config"
	"github.com/ashbuk/croaker/internal/platform"
)

// typeTool names an external keystroke-synthesis command this package
// knows how to drive. Grounded on output/type_outputter.go's TypeOutputter
// switch over the same three tool names; the per-call tool choice there
// becomes an ordered fallback chain here.
type typeTool string

const (
	toolWtype   typeTool = "wtype"
	toolXdotool typeTool = "xdotool"
	toolYdotool typeTool = "ydotool"
)

// typist drives the Direct-mode keystroke chain (type text character by
// character) and the Both-mode paste chain (Ctrl+V), trying each
// configured/available tool in order until one succeeds.
//
// The spec's own vocabulary for this ("Wayland virtual-keyboard protocol",
// "kernel uinput device") names the mechanism wtype and ydotool/xdotool
// already implement under the hood; shelling out to them keeps this
// package's HOW consistent with output/type_outputter.go and
// audio/recorder.go's subprocess-delegation pattern instead of
// reimplementing virtual-keyboard or uinput bindings in process.
type typist struct {
	cfg     *config.Config
	chain   []typeTool
	delay   time.Duration
	lookup  func(string) (string, error)
	runArgs func(ctx context.Context, name string, args ...string) error
}

func newTypist(cfg *config.Config, env platform.EnvironmentType) *typist {
	chain := []typeTool{toolXdotool, toolWtype, toolYdotool}
	if env == platform.EnvironmentWayland {
		chain = []typeTool{toolWtype, toolYdotool, toolXdotool}
	}
	if cfg.Output.TypeTool != "" && cfg.Output.TypeTool != "auto" {
		chain = append([]typeTool{typeTool(cfg.Output.TypeTool)}, chain...)
	}

	return &typist{
		cfg:     cfg,
		chain:   chain,
		delay:   keystrokeDelay(cfg.Output.KeystrokeDelayMs),
		lookup:  func(name string) (string, error) { return exec.LookPath(name) },
		runArgs: runCommand,
	}
}

// typeText tries each tool in the chain, in order, until one types text
// successfully.
func (t *typist) typeText(ctx context.Context, text string) error {
	var lastErr error
	for _, tool := range t.chain {
		args, ok := t.typeArgs(tool, text)
		if !ok {
			continue
		}
		if _, err := t.lookup(string(tool)); err != nil {
			lastErr = err
			continue
		}
		if !config.IsCommandAllowed(t.cfg, string(tool)) {
			lastErr = fmt.Errorf("typing tool %q is not in the security allowlist", tool)
			continue
		}
		if err := t.runArgs(ctx, string(tool), config.SanitizeCommandArgs(args)...); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no typing tool available")
	}
	return lastErr
}

// paste sends a synthetic Ctrl+V through whichever tool in the chain
// accepts a key-combo invocation.
func (t *typist) paste(ctx context.Context) error {
	var lastErr error
	for _, tool := range t.chain {
		args, ok := t.pasteArgs(tool)
		if !ok {
			continue
		}
		if _, err := t.lookup(string(tool)); err != nil {
			lastErr = err
			continue
		}
		if !config.IsCommandAllowed(t.cfg, string(tool)) {
			lastErr = fmt.Errorf("paste tool %q is not in the security allowlist", tool)
			continue
		}
		if err := t.runArgs(ctx, string(tool), args...); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no paste-capable tool available")
	}
	return lastErr
}

func (t *typist) typeArgs(tool typeTool, text string) ([]string, bool) {
	delayMs := strconv.FormatInt(t.delay.Milliseconds(), 10)
	switch tool {
	case toolXdotool:
		// xdotool drives the X11/uinput keystroke path; its ASCII keymap
		// can't express arbitrary Unicode, so non-ASCII text is demoted to
		// whatever comes later in the chain (ultimately the clipboard
		// fallback), matching the uinput ASCII-keycode-map limitation.
		if !isASCII(text) {
			return nil, false
		}
		return []string{"type", "--clearmodifiers", "--delay", delayMs, text}, true
	case toolWtype:
		return []string{"-d", delayMs, text}, true
	case toolYdotool:
		return []string{"type", "--key-delay", delayMs, text}, true
	default:
		return nil, false
	}
}

func (t *typist) pasteArgs(tool typeTool) ([]string, bool) {
	switch tool {
	case toolXdotool:
		return []string{"key", "--clearmodifiers", "ctrl+v"}, true
	case toolWtype:
		return []string{"-M", "ctrl", "-k", "v", "-m", "ctrl"}, true
	case toolYdotool:
		// left-ctrl (29) down, v (47) down, v up, left-ctrl up.
		return []string{"key", "29:1", "47:1", "47:0", "29:0"}, true
	default:
		return nil, false
	}
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > 127 {
			return false
		}
	}
	return true
}

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, string(out))
	}
	return nil
}
