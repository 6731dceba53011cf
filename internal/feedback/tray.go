// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package feedback

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ashbuk/croaker/config"
	"github.com/ashbuk/croaker/internal/logger"
	"github.com/ashbuk/croaker/internal/session"
)

// TrayBackend publishes a StatusNotifierItem-compatible tray icon that is
// grey in Idle and red in every other phase; there is no orange or green
// icon. The phase color (grey=Idle, red=Recording, orange=Processing,
// green=Outputting) appears only as a word in the tooltip, which also
// reports the current output mode and language, and a read-only status
// menu item carries the phase, mode and language. Grounded on internal/tray/tray.go's
// systray wiring (menu construction in onReady, ClickedCh select loop),
// generalized from its mic-on/off recording boolean and sprawling
// settings submenus down to the four-phase status item spec.md §4.6
// asks for — hotkey/recorder/language/output submenus are InputSources'
// and TextInjector's own CLI-facing config concerns now, not the tray's.
type TrayBackend struct {
	log logger.Logger

	iconIdle []byte
	iconBusy []byte

	mu         sync.Mutex
	statusItem *systray.MenuItem
	quitItem   *systray.MenuItem
	pending    session.FeedbackState
	ready      bool
}

// NewTrayBackend builds a backend using the teacher's embedded mic
// icons: grey/off for Idle, red/on for every non-Idle phase (the pack
// ships two icon assets, not four — phase is still fully disambiguated
// through the tooltip and status item text this backend sets alongside
// the icon).
func NewTrayBackend(cfg *config.Config, log logger.Logger) *TrayBackend {
	return &TrayBackend{
		log:      log,
		iconIdle: GetIconMicOff(log),
		iconBusy: GetIconMicOn(log),
	}
}

// Start launches the systray event loop in the background. systray.Run
// blocks until systray.Quit is called, so it always runs on its own
// goroutine; Stop calls systray.Quit to unwind it.
func (t *TrayBackend) Start(onQuit func()) {
	go systray.Run(func() { t.onReady(onQuit) }, func() {})
}

func (t *TrayBackend) onReady(onQuit func()) {
	systray.SetIcon(t.iconIdle)
	systray.SetTitle("croaker")
	systray.SetTooltip("croaker: idle")

	t.mu.Lock()
	t.statusItem = systray.AddMenuItem("phase=idle", "Current session phase")
	t.statusItem.Disable()
	systray.AddSeparator()
	t.quitItem = systray.AddMenuItem("Quit", "Quit croaker")
	pending := t.pending
	t.ready = true
	t.mu.Unlock()

	t.render(pending)

	go func() {
		<-t.quitItem.ClickedCh
		systray.Quit()
		if onQuit != nil {
			onQuit()
		}
	}()
}

// Update stores the latest state and, once the menu exists, re-renders
// the icon/tooltip/status item. Updates that arrive before onReady runs
// are held in pending and applied as soon as the menu is built.
func (t *TrayBackend) Update(state session.FeedbackState) {
	t.mu.Lock()
	t.pending = state
	ready := t.ready
	t.mu.Unlock()
	if ready {
		t.render(state)
	}
}

func (t *TrayBackend) render(state session.FeedbackState) {
	icon, color := t.iconIdle, "grey"
	switch state.Phase {
	case session.Recording:
		icon, color = t.iconBusy, "red"
	case session.Processing:
		icon, color = t.iconBusy, "orange"
	case session.Outputting:
		icon, color = t.iconBusy, "green"
	}

	systray.SetIcon(icon)
	tooltip := fmt.Sprintf("croaker: %s (%s) — mode=%s, lang=%s", state.Phase, color, state.OutputMode, state.CurrentLanguage)
	systray.SetTooltip(tooltip)

	t.mu.Lock()
	item := t.statusItem
	t.mu.Unlock()
	if item != nil {
		item.SetTitle(fmt.Sprintf("phase=%s mode=%s lang=%s", state.Phase, state.OutputMode, state.CurrentLanguage))
	}
}

// Stop unwinds the systray event loop started by Start.
func (t *TrayBackend) Stop() {
	systray.Quit()
}
