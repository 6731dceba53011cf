// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package transcribe

import "github.com/ashbuk/croaker/internal/session"

// classifiedError tags an error with the session.ErrorKind the controller's
// classifyTranscriptionError switch expects, so a Groq transport/API
// failure maps onto spec.md §7's taxonomy instead of a generic ErrService.
type classifiedError struct {
	kind session.ErrorKind
	err  error
}

func (e *classifiedError) Error() string           { return e.err.Error() }
func (e *classifiedError) Unwrap() error           { return e.err }
func (e *classifiedError) Kind() session.ErrorKind { return e.kind }
