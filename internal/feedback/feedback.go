// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package feedback implements FeedbackSink: it subscribes to the
// controller's FeedbackState broadcast and reflects every committed
// transition onto a system tray icon and/or a desktop notification,
// per the two selectable backends named by spec.md §4.6.
package feedback

import (
	"context"
	"strings"

	"github.com/ashbuk/croaker/config"
	"github.com/ashbuk/croaker/internal/logger"
	"github.com/ashbuk/croaker/internal/session"
)

// Backend is one of the two FeedbackSink renderers. Start is only
// meaningful for the tray backend (it owns the systray event loop);
// the notification backend's Start/Stop are no-ops.
type Backend interface {
	Start(onQuit func())
	Update(state session.FeedbackState)
	Stop()
}

// Manager fans FeedbackState out to every enabled backend. A slow or
// disconnected backend never blocks the controller: it always reads
// through session.Broadcaster, which already drops stale updates for
// a receiver that falls behind.
type Manager struct {
	backends []Backend
	log      logger.Logger
}

// New builds a Manager from the configured overlay backend(s). An empty
// backend string selects both tray and notification. A disabled
// configuration yields a Manager with no backends — Run
// becomes a no-op loop that still drains the broadcast so Publish never
// blocks, in case overlay gets enabled by a future reload.
func New(cfg *config.Config, log logger.Logger) *Manager {
	m := &Manager{log: log}
	if !cfg.Overlay.Enabled {
		return m
	}
	for _, name := range splitBackends(cfg.Overlay.Backend) {
		switch name {
		case config.OverlayBackendTray:
			m.backends = append(m.backends, NewTrayBackend(cfg, log))
		case config.OverlayBackendNotification:
			m.backends = append(m.backends, NewNotificationBackend(cfg, log))
		default:
			log.Warning("overlay: unknown backend %q ignored", name)
		}
	}
	return m
}

func splitBackends(backend string) []string {
	if strings.TrimSpace(backend) == "" {
		return []string{config.OverlayBackendTray, config.OverlayBackendNotification}
	}
	parts := strings.Split(backend, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Run subscribes to feed and dispatches every published state to each
// backend until ctx is cancelled. onQuit is invoked if the user asks to
// quit from a backend's UI (currently only the tray's Quit menu item).
func (m *Manager) Run(ctx context.Context, feed *session.Broadcaster, onQuit func()) {
	for _, b := range m.backends {
		b.Start(onQuit)
	}
	defer func() {
		for _, b := range m.backends {
			b.Stop()
		}
	}()

	ch, unsubscribe := feed.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case state, ok := <-ch:
			if !ok {
				return
			}
			for _, b := range m.backends {
				b.Update(state)
			}
		}
	}
}
