// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package ipc

// Request is the single line a client sends over the socket: a bare
// command name (spec.md §6's protocol carries no parameters — every
// command this daemon exposes is a verb with no arguments).
type Request struct {
	Command string
}

// Response is the single line the server replies with. OK selects which
// of the three wire forms Server.handleConnection writes: "ok\n",
// "error: <msg>\n", or — for handlers like status that produce their own
// formatted line — Message verbatim.
type Response struct {
	OK      bool
	Message string
}

// Handler processes one parsed Request and produces the Response to
// write back. A non-nil error is equivalent to returning
// NewErrorResponse(err.Error()).
type Handler func(req Request) (Response, error)

// NewSuccessResponse constructs an OK reply. Pass "ok" for commands with
// no further reply content, or a pre-formatted status line otherwise.
func NewSuccessResponse(message string) Response {
	return Response{OK: true, Message: message}
}

// NewErrorResponse constructs a rejected-command reply.
func NewErrorResponse(message string) Response {
	return Response{OK: false, Message: message}
}
