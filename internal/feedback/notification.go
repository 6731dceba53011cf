// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package feedback

import (
	"fmt"
	"os/exec"

	"github.com/gen2brain/beeep"

	"github.com/ashbuk/croaker/config"
	"github.com/ashbuk/croaker/internal/logger"
	"github.com/ashbuk/croaker/internal/session"
)

const appName = "croaker"

// NotificationBackend emits one desktop notification per transition into
// Recording, Processing or Outputting and one per Failed event; a return to
// Idle and a mode or language toggle produce no notification. Grounded on
// internal/notify/notification.go's notify-send shellout (allowlist
// check, sanitized args), generalized from a fixed set of named
// recording/transcription notifications to the four-phase transition
// table, with github.com/gen2brain/beeep (grounded on bezmoradi-t2's
// internal/audio/beep.go import of the same package, there used for
// audio cues) wired as a cross-desktop fallback for hosts without
// notify-send on PATH.
type NotificationBackend struct {
	cfg  *config.Config
	log  logger.Logger
	last session.Phase
	seen bool

	// sendViaNotifySend and fallback are overridden in tests to avoid
	// touching a real notification daemon; production wires the
	// notify-send shellout and beeep.Notify respectively.
	sendViaNotifySend func(title, body, icon string) bool
	fallback          func(title, body string) error
}

// NewNotificationBackend builds a backend bound to cfg's security
// allowlist.
func NewNotificationBackend(cfg *config.Config, log logger.Logger) *NotificationBackend {
	n := &NotificationBackend{cfg: cfg, log: log}
	n.sendViaNotifySend = n.notifySendShellout
	n.fallback = func(title, body string) error { return beeep.Notify(title, body, "") }
	return n
}

// Start/Stop are no-ops: unlike the tray backend, this one owns no
// background loop or OS resource between notifications.
func (n *NotificationBackend) Start(onQuit func()) {}
func (n *NotificationBackend) Stop()               {}

// Update emits a notification for a Failed state, or for any phase
// transition since the previous Update (repeated publishes carrying the
// same phase — e.g. a toggle mid-session — are not renotified).
func (n *NotificationBackend) Update(state session.FeedbackState) {
	if state.HasError {
		n.notify("croaker error", state.LastErrorKind.NotificationMessage(), "dialog-error")
		n.last, n.seen = state.Phase, true
		return
	}

	if n.seen && n.last == state.Phase {
		return
	}
	n.last, n.seen = state.Phase, true

	switch state.Phase {
	case session.Recording:
		n.notify(appName, "Recording started", "notification-microphone-sensitivity-high")
	case session.Processing:
		n.notify(appName, "Transcribing…", "view-refresh")
	case session.Outputting:
		n.notify(appName, fmt.Sprintf("Delivering text (%s)", state.OutputMode), "edit-copy")
	}
}

func (n *NotificationBackend) notify(title, body, icon string) {
	if n.sendViaNotifySend(title, body, icon) {
		return
	}
	if err := n.fallback(title, body); err != nil {
		n.log.Warning("feedback: notification delivery failed: %v", err)
	}
}

func (n *NotificationBackend) notifySendShellout(title, body, icon string) bool {
	if !config.IsCommandAllowed(n.cfg, "notify-send") {
		return false
	}
	if _, err := exec.LookPath("notify-send"); err != nil {
		return false
	}
	args := config.SanitizeCommandArgs([]string{"--app-name", appName, "--icon", icon, title, body})
	// #nosec G204 -- notify-send is allowlisted and arguments are sanitized
	if err := exec.Command("notify-send", args...).Run(); err != nil {
		n.log.Warning("feedback: notify-send failed, falling back: %v", err)
		return false
	}
	return true
}
