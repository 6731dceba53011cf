// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package session

import (
	"context"
	"time"
)

// RuntimeSettings is the controller-owned mutable record read by pipeline
// stages at the moment they start. Only ToggleLanguage/ToggleOutputMode
// mutate it; everything else is immutable configuration captured at
// startup.
type RuntimeSettings struct {
	CurrentLanguage  string
	Languages        []string
	OutputMode       OutputMode
	APIKey           string
	WhisperModel     string
	CleanupEnabled   bool
	CleanupModel     string
	CleanupPrompt    string
	KeystrokeDelay   time.Duration
	ClipboardRestore bool
}

// Snapshot returns an immutable copy safe to hand to a pipeline task.
func (s RuntimeSettings) Snapshot() RuntimeSettings {
	langs := make([]string, len(s.Languages))
	copy(langs, s.Languages)
	s.Languages = langs
	return s
}

// nextLanguage returns the language that follows CurrentLanguage in the
// configured cycle, wrapping around.
func (s *RuntimeSettings) nextLanguage() string {
	if len(s.Languages) == 0 {
		return s.CurrentLanguage
	}
	for i, l := range s.Languages {
		if l == s.CurrentLanguage {
			return s.Languages[(i+1)%len(s.Languages)]
		}
	}
	return s.Languages[0]
}

// nextOutputMode returns the next mode in the fixed 3-cycle
// Both -> Clipboard -> Direct -> Both.
func nextOutputMode(m OutputMode) OutputMode {
	switch m {
	case Both:
		return Clipboard
	case Clipboard:
		return Direct
	default:
		return Both
	}
}

// ActiveSession exists iff Phase != Idle. Language and OutputMode are
// frozen at the instant the session enters Recording; later toggles only
// affect the next session.
type ActiveSession struct {
	ID         uint64
	StartedAt  time.Time
	AudioFile  string
	Language   string
	OutputMode OutputMode
	Cancel     context.CancelFunc
	ctx        context.Context
	handle     RecordingHandle
}

// FeedbackState is the derived view published to FeedbackSink after every
// committed transition. LastErrorKind is only set on the single publish that
// accompanies a Failed event; every other transition leaves it at its zero
// value (HasError=false), so a subscriber only surfaces a notification on
// the publish where HasError is true.
type FeedbackState struct {
	Phase           Phase
	CurrentLanguage string
	OutputMode      OutputMode
	HasError        bool
	LastErrorKind   ErrorKind
}
