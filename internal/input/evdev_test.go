// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package input

import (
	"testing"

	evdev "github.com/gvalkov/golang-evdev"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashbuk/croaker/config"
	"github.com/ashbuk/croaker/internal/session"
)

func codeFor(t *testing.T, name string) int {
	t.Helper()
	for code, n := range keyCodeNames {
		if n == name {
			return code
		}
	}
	t.Fatalf("no key code for %q", name)
	return 0
}

func TestNewChord_ParsesModifiersAndKey(t *testing.T) {
	c := newChord("ctrl+alt+o", session.ToggleOutputModeEvent())
	assert.Equal(t, "o", c.key)
	assert.Equal(t, []string{"ctrl", "alt"}, c.modifiers)
}

func TestEvdevSource_PushToTalk_PressAndReleaseEmitStartStop(t *testing.T) {
	cfg := &config.Config{}
	cfg.Hotkeys.PushToTalkKey = "rightalt"
	sink := newFakeSink()
	s := NewEvdevSource(cfg, sink, testLogger())

	code := uint16(codeFor(t, "rightalt"))
	s.handleKeyEvent(evdev.InputEvent{Type: evKey, Code: code, Value: keyValueDown})
	s.handleKeyEvent(evdev.InputEvent{Type: evKey, Code: code, Value: keyValueUp})

	got := sink.submitted()
	require.Len(t, got, 2)
	assert.Equal(t, session.EventStartRecording, got[0].Kind)
	assert.Equal(t, session.EventStopRecording, got[1].Kind)
}

func TestEvdevSource_PushToTalk_IgnoresAutoRepeat(t *testing.T) {
	cfg := &config.Config{}
	cfg.Hotkeys.PushToTalkKey = "rightalt"
	sink := newFakeSink()
	s := NewEvdevSource(cfg, sink, testLogger())

	code := uint16(codeFor(t, "rightalt"))
	s.handleKeyEvent(evdev.InputEvent{Type: evKey, Code: code, Value: keyValueDown})
	s.handleKeyEvent(evdev.InputEvent{Type: evKey, Code: code, Value: keyValueRepeat})
	s.handleKeyEvent(evdev.InputEvent{Type: evKey, Code: code, Value: keyValueRepeat})
	s.handleKeyEvent(evdev.InputEvent{Type: evKey, Code: code, Value: keyValueUp})

	got := sink.submitted()
	require.Len(t, got, 2)
}

func TestEvdevSource_Chord_FiresOnlyWhenAllModifiersHeld(t *testing.T) {
	cfg := &config.Config{}
	cfg.Hotkeys.OutputModeShortcut = "ctrl+o"
	sink := newFakeSink()
	s := NewEvdevSource(cfg, sink, testLogger())

	ctrlCode := uint16(codeFor(t, "leftctrl"))
	oCode := uint16(codeFor(t, "o"))

	// 'o' without ctrl held: no chord fires.
	s.handleKeyEvent(evdev.InputEvent{Type: evKey, Code: oCode, Value: keyValueDown})
	assert.Empty(t, sink.submitted())

	// Hold ctrl, then press 'o': chord fires exactly once.
	s.handleKeyEvent(evdev.InputEvent{Type: evKey, Code: ctrlCode, Value: keyValueDown})
	s.handleKeyEvent(evdev.InputEvent{Type: evKey, Code: oCode, Value: keyValueDown})

	got := sink.submitted()
	require.Len(t, got, 1)
	assert.Equal(t, session.EventToggleOutputMode, got[0].Kind)
}

func TestEvdevSource_Disabled_WhenNoKeyOrChordConfigured(t *testing.T) {
	cfg := &config.Config{}
	sink := newFakeSink()
	s := NewEvdevSource(cfg, sink, testLogger())
	assert.Empty(t, s.chords)
	assert.Equal(t, "", s.pushToTalkKey)
}
