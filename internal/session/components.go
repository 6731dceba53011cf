// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package session

import "context"

// RecordingHandle is returned by AudioRecorder.Start. Stop finalizes the
// capture and returns the file path; Abort kills the subprocess and
// deletes the file immediately (used on Cancel).
type RecordingHandle interface {
	Stop(ctx context.Context) (string, error)
	Abort()
}

// AudioRecorder is the component contract from the component design: start
// an external PCM capture subprocess, stop it gracefully, or abort it.
type AudioRecorder interface {
	Start(ctx context.Context) (RecordingHandle, error)
}

// TranscriptionClient uploads a captured audio file to the remote speech
// service and returns the recognized text.
type TranscriptionClient interface {
	Transcribe(ctx context.Context, filePath, languageCode string) (string, error)
}

// CleanupClient sends raw transcript text through a remote chat completion
// to fix punctuation/filler words before injection.
type CleanupClient interface {
	Clean(ctx context.Context, rawText, prompt, model string) (string, error)
}

// TextInjector delivers recognized text to the user's focused window per
// the configured OutputMode.
type TextInjector interface {
	Inject(ctx context.Context, text string, mode OutputMode) error
}
