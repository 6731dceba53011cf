// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package croaker provides a high-level overview of the croaker project.
//
// croaker is a background daemon that turns speech into text in the
// focused window: press a hotkey, speak, press it again, and the
// transcript is injected via clipboard paste or simulated keystrokes.
//
// Core responsibilities:
//   - Global hotkeys via evdev (push-to-talk and chorded shortcuts) and the
//     DBus GlobalShortcuts portal (toggle), running side by side, plus a
//     Unix-socket control protocol for CLI/scripted use.
//   - Audio capture via arecord, ffmpeg, or a native PulseAudio connection
//     (config.Audio.RecordingMethod), written to a temp WAV file.
//   - Remote transcription through a Groq (OpenAI-compatible) endpoint,
//     with an optional second remote call to clean up filler words and
//     punctuation before injection.
//   - Text output routing: clipboard, simulated keystrokes, or both.
//   - A single-writer, channel-based session state machine
//     (Idle/Recording/Processing/Outputting) arbitrates every input
//     source so only one capture is ever in flight.
//   - Tray icon and desktop notification feedback for phase changes.
//
// Entry point: cmd/croaker. `croaker serve` runs the daemon; `croaker
// toggle|cancel|status|toggle-output-mode|toggle-language` are thin
// clients that speak to a running daemon's control socket.
//
// Testing strategy: unit tests colocated with each package
// (go test ./...).
package croaker
