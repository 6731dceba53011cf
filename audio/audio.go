// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package audio implements the AudioRecorder component. Depending on
// config.Audio.RecordingMethod, capture happens one of two ways: "arecord"
// or "ffmpeg" spawn an external subprocess that writes raw PCM straight to
// a WAV file; "pulse" connects to the PulseAudio server directly in-process
// and buffers captured PCM before writing the same WAV layout itself. Both
// paths are exposed through the internal/session.AudioRecorder and
// session.RecordingHandle contracts.
//
// There is no audio processing here — no VAD, no chunking, no level
// metering. Capture is a passthrough to disk; this package only decides how
// to reach the audio device and how to stop capture gracefully.
package audio
