// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package input implements the InputSources component: three independent
// producers (an evdev keyboard monitor, a compositor global-shortcuts
// listener, and a Unix-domain socket server) that each translate
// user-intent into internal/session.Event values and submit them to the
// controller.
//
// Each producer runs as its own long-lived goroutine, restarts on
// recoverable errors with exponential backoff capped at 30s, and logs but
// never crashes the daemon on unrecoverable errors — grounded on
// hotkeys/manager.go's Start/fallback handling, generalized into a shared
// restart loop since all three producers need the same resilience shape.
package input

import (
	"context"
	"math/rand"
	"time"

	"github.com/ashbuk/croaker/internal/logger"
	"github.com/ashbuk/croaker/internal/session"
)

// Sink is the subset of *session.Controller the input producers depend on.
// Satisfied directly by *session.Controller; named separately so producers
// can be tested against a fake.
type Sink interface {
	Submit(session.Event) bool
	Phase() session.Phase
	Settings() session.RuntimeSettings
}

const maxBackoff = 30 * time.Second

// runWithBackoff runs fn repeatedly until ctx is cancelled. A fn that
// returns nil is assumed to have run to completion normally (e.g. the
// caller closed a listening socket) and is not restarted; a fn that
// returns an error is restarted after an exponential backoff capped at
// maxBackoff, reset to the initial delay after a run that lasted long
// enough to be considered healthy.
func runWithBackoff(ctx context.Context, log logger.Logger, name string, fn func(ctx context.Context) error) {
	backoff := time.Second
	for {
		start := time.Now()
		err := fn(ctx)
		if ctx.Err() != nil {
			return
		}
		if err == nil {
			return
		}

		log.Warning("%s stopped, restarting: %v", name, err)
		if time.Since(start) > maxBackoff {
			backoff = time.Second
		}

		jitter := time.Duration(rand.Int63n(int64(backoff) / 4 + 1))
		wait := backoff + jitter
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

// submitOrWarn offers e to sink and logs a warning on drop, matching
// spec.md §4.5's "producer drops the event and logs a warning" overflow
// policy (session.Controller.Submit already implements the non-blocking
// bounded-channel send).
func submitOrWarn(log logger.Logger, sink Sink, name string, e session.Event) {
	if !sink.Submit(e) {
		log.Warning("%s: event channel full, dropped %s", name, e.Kind)
	}
}
