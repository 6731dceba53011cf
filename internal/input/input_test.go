// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package input

import (
	"sync"

	"github.com/ashbuk/croaker/internal/logger"
	"github.com/ashbuk/croaker/internal/session"
)

// fakeSink is a test double for Sink.
type fakeSink struct {
	mu       sync.Mutex
	events   []session.Event
	phase    session.Phase
	settings session.RuntimeSettings
	accept   bool
}

func newFakeSink() *fakeSink {
	return &fakeSink{accept: true, phase: session.Idle}
}

func (f *fakeSink) Submit(e session.Event) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.accept {
		return false
	}
	f.events = append(f.events, e)
	return true
}

func (f *fakeSink) Phase() session.Phase { return f.phase }

func (f *fakeSink) Settings() session.RuntimeSettings { return f.settings }

func (f *fakeSink) submitted() []session.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]session.Event, len(f.events))
	copy(out, f.events)
	return out
}

func testLogger() logger.Logger {
	return logger.NewDefaultLogger(logger.ErrorLevel)
}
