// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package cleanup

import "github.com/ashbuk/croaker/internal/session"

// classifiedError tags an error with the session.ErrorKind the controller's
// classifyTranscriptionError switch expects. Duplicated from
// internal/transcribe rather than shared, matching the teacher corpus's own
// pattern (alnah-go-transcript duplicates its openAIAPIError/classify
// function across internal/transcribe and internal/restructure rather than
// factoring out a shared error package).
type classifiedError struct {
	kind session.ErrorKind
	err  error
}

func (e *classifiedError) Error() string           { return e.err.Error() }
func (e *classifiedError) Unwrap() error           { return e.err }
func (e *classifiedError) Kind() session.ErrorKind { return e.kind }
