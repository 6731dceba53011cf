// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package input

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	evdev "github.com/gvalkov/golang-evdev"

	"github.com/ashbuk/croaker/config"
	"github.com/ashbuk/croaker/internal/logger"
	"github.com/ashbuk/croaker/internal/session"
)

const (
	evKey       = 1
	keyValueUp   = 0
	keyValueDown = 1
	keyValueRepeat = 2

	rescanInterval = 10 * time.Second
)

// chord is a modifier set plus trigger key bound to an event.
type chord struct {
	modifiers []string
	key       string
	event     session.Event
}

// EvdevSource watches every readable /dev/input/event* keyboard device for
// the push-to-talk key and any configured chorded shortcuts. Grounded on
// hotkeys/evdev_provider.go's EvdevKeyboardProvider, generalized from its
// single chord-callback map into StartRecording/StopRecording on
// push-to-talk press/release plus a configurable chord table, and
// extended with periodic hot-plug rescanning and auto-repeat filtering
// (hotkeys/evdev_provider.go already only reacts to value==1, but did not
// exclude value==2 explicitly; this source does, matching the spec's
// "auto-repeat events are ignored").
type EvdevSource struct {
	cfg           *config.Config
	sink          Sink
	log           logger.Logger
	pushToTalkKey string
	chords        []chord

	mu            sync.Mutex
	devices       []*evdev.InputDevice
	modifierState map[string]bool
}

// NewEvdevSource builds a source from hotkey configuration. Chorded
// shortcuts are parsed from cfg.Hotkeys.{OutputModeShortcut,LanguageShortcut}.
func NewEvdevSource(cfg *config.Config, sink Sink, log logger.Logger) *EvdevSource {
	s := &EvdevSource{
		cfg:           cfg,
		sink:          sink,
		log:           log,
		pushToTalkKey: strings.ToLower(strings.TrimSpace(cfg.Hotkeys.PushToTalkKey)),
		modifierState: make(map[string]bool),
	}

	if cfg.Hotkeys.OutputModeShortcut != "" {
		s.chords = append(s.chords, newChord(cfg.Hotkeys.OutputModeShortcut, session.ToggleOutputModeEvent()))
	}
	if cfg.Hotkeys.LanguageShortcut != "" {
		s.chords = append(s.chords, newChord(cfg.Hotkeys.LanguageShortcut, session.ToggleLanguageEvent()))
	}

	return s
}

func newChord(spec string, event session.Event) chord {
	parts := strings.Split(spec, "+")
	c := chord{event: event}
	if len(parts) == 0 {
		return c
	}
	c.key = strings.ToLower(strings.TrimSpace(parts[len(parts)-1]))
	for _, m := range parts[:len(parts)-1] {
		c.modifiers = append(c.modifiers, strings.ToLower(strings.TrimSpace(m)))
	}
	return c
}

// Run blocks until ctx is cancelled, restarting the device watch loop with
// backoff whenever it fails (no devices found, a device read error, etc.).
func (s *EvdevSource) Run(ctx context.Context) {
	if s.pushToTalkKey == "" && len(s.chords) == 0 {
		s.log.Info("evdev source disabled: no push-to-talk key or chorded shortcut configured")
		return
	}
	runWithBackoff(ctx, s.log, "evdev keyboard source", s.watch)
}

func (s *EvdevSource) watch(ctx context.Context) error {
	devices, err := s.findKeyboardDevices()
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		return fmt.Errorf("no keyboard devices found")
	}

	s.mu.Lock()
	s.devices = devices
	s.mu.Unlock()
	defer s.closeDevices()

	events := make(chan evdev.InputEvent, 32)
	errs := make(chan error, len(devices))

	for _, dev := range devices {
		go s.readLoop(ctx, dev, events, errs)
	}

	ticker := time.NewTicker(rescanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errs:
			return err
		case ev := <-events:
			s.handleKeyEvent(ev)
		case <-ticker.C:
			s.rescan(ctx, events, errs)
		}
	}
}

// rescan opens any newly attached keyboard devices so hotplugged keyboards
// are picked up without restarting the whole watch loop.
func (s *EvdevSource) rescan(ctx context.Context, events chan evdev.InputEvent, errs chan error) {
	all, err := s.findKeyboardDevices()
	if err != nil {
		return
	}

	s.mu.Lock()
	known := make(map[string]bool, len(s.devices))
	for _, d := range s.devices {
		known[d.Fn] = true
	}
	var fresh []*evdev.InputDevice
	for _, d := range all {
		if known[d.Fn] {
			d.File.Close()
			continue
		}
		fresh = append(fresh, d)
		s.devices = append(s.devices, d)
	}
	s.mu.Unlock()

	for _, dev := range fresh {
		s.log.Info("evdev: new keyboard device attached: %s", dev.Fn)
		go s.readLoop(ctx, dev, events, errs)
	}
}

func (s *EvdevSource) readLoop(ctx context.Context, dev *evdev.InputDevice, events chan<- evdev.InputEvent, errs chan<- error) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		evs, err := dev.Read()
		if err != nil {
			select {
			case errs <- fmt.Errorf("read %s: %w", dev.Fn, err):
			case <-ctx.Done():
			}
			return
		}

		for _, e := range evs {
			if e.Type != evKey {
				continue
			}
			select {
			case events <- e:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (s *EvdevSource) findKeyboardDevices() ([]*evdev.InputDevice, error) {
	var devices []*evdev.InputDevice

	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		return nil, fmt.Errorf("list input devices: %w", err)
	}

	for _, path := range paths {
		dev, err := evdev.Open(path)
		if err != nil {
			s.log.Debug("evdev: could not open %s: %v", path, err)
			continue
		}
		if isKeyboard(dev) {
			devices = append(devices, dev)
		} else {
			dev.File.Close()
		}
	}

	return devices, nil
}

func isKeyboard(dev *evdev.InputDevice) bool {
	if strings.Contains(strings.ToLower(dev.Name), "keyboard") {
		return true
	}
	for capType, codes := range dev.Capabilities {
		if capType.Type == evKey && len(codes) > 0 {
			return true
		}
	}
	return false
}

func (s *EvdevSource) closeDevices() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.devices {
		d.File.Close()
	}
	s.devices = nil
}

func (s *EvdevSource) handleKeyEvent(ev evdev.InputEvent) {
	if ev.Value == keyValueRepeat {
		return
	}

	keyName := keyName(int(ev.Code))
	if keyName == "" {
		return
	}

	if isModifierKey(keyName) {
		s.mu.Lock()
		s.modifierState[keyName] = ev.Value == keyValueDown
		s.mu.Unlock()
	}

	if s.pushToTalkKey != "" && keyName == s.pushToTalkKey {
		switch ev.Value {
		case keyValueDown:
			submitOrWarn(s.log, s.sink, "evdev", session.StartRecordingEvent())
		case keyValueUp:
			submitOrWarn(s.log, s.sink, "evdev", session.StopRecordingEvent())
		}
		return
	}

	if ev.Value != keyValueDown {
		return
	}
	for _, c := range s.chords {
		if c.key != keyName {
			continue
		}
		if s.modifiersHeld(c.modifiers) {
			submitOrWarn(s.log, s.sink, "evdev", c.event)
		}
	}
}

func (s *EvdevSource) modifiersHeld(mods []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range mods {
		if !s.modifierState[evdevModifierName(m)] {
			return false
		}
	}
	return true
}
