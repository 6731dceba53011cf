// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package input

import (
	"context"
	"fmt"

	"github.com/ashbuk/croaker/internal/ipc"
	"github.com/ashbuk/croaker/internal/logger"
	"github.com/ashbuk/croaker/internal/session"
)

// SocketSource binds internal/ipc.Server and registers the five commands
// spec.md §4.5/§6 names (toggle, cancel, status, toggle-output-mode,
// toggle-language), translating each into a session.Event. The server
// itself (single-instance bind, stale-socket replacement, one-reply-per-
// connection) is kept from internal/ipc/server.go verbatim; this source
// only supplies the command table.
type SocketSource struct {
	server *ipc.Server
	sink   Sink
	log    logger.Logger
}

// NewSocketSource builds a source bound to path, wiring the standard
// command table against sink.
func NewSocketSource(path string, sink Sink, log logger.Logger) *SocketSource {
	s := &SocketSource{
		server: ipc.NewServer(path, log),
		sink:   sink,
		log:    log,
	}
	s.registerCommands()
	return s
}

func (s *SocketSource) registerCommands() {
	s.server.Register("toggle", s.handleToggle)
	s.server.Register("cancel", s.handleCancel)
	s.server.Register("status", s.handleStatus)
	s.server.Register("toggle-output-mode", s.handleToggleOutputMode)
	s.server.Register("toggle-language", s.handleToggleLanguage)
}

// Run starts the server and blocks until ctx is cancelled, at which point
// the socket is closed and removed.
func (s *SocketSource) Run(ctx context.Context) {
	runWithBackoff(ctx, s.log, "ipc socket source", s.watch)
	<-ctx.Done()
}

func (s *SocketSource) watch(ctx context.Context) error {
	if err := s.server.Start(); err != nil {
		return fmt.Errorf("start ipc server: %w", err)
	}
	go func() {
		<-ctx.Done()
		s.server.Stop()
	}()
	return nil
}

func (s *SocketSource) handleToggle(req ipc.Request) (ipc.Response, error) {
	switch s.sink.Phase() {
	case session.Idle:
		s.submit(session.StartRecordingEvent())
	case session.Recording:
		s.submit(session.StopRecordingEvent())
	default:
		return ipc.NewErrorResponse("busy: a session is already processing or outputting"), nil
	}
	return ipc.NewSuccessResponse("ok"), nil
}

func (s *SocketSource) handleCancel(req ipc.Request) (ipc.Response, error) {
	s.submit(session.CancelEvent())
	return ipc.NewSuccessResponse("ok"), nil
}

func (s *SocketSource) handleToggleOutputMode(req ipc.Request) (ipc.Response, error) {
	s.submit(session.ToggleOutputModeEvent())
	return ipc.NewSuccessResponse("ok"), nil
}

func (s *SocketSource) handleToggleLanguage(req ipc.Request) (ipc.Response, error) {
	s.submit(session.ToggleLanguageEvent())
	return ipc.NewSuccessResponse("ok"), nil
}

func (s *SocketSource) handleStatus(req ipc.Request) (ipc.Response, error) {
	settings := s.sink.Settings()
	msg := fmt.Sprintf("phase=%s lang=%s mode=%s", s.sink.Phase(), settings.CurrentLanguage, settings.OutputMode)
	return ipc.NewSuccessResponse(msg), nil
}

func (s *SocketSource) submit(e session.Event) {
	submitOrWarn(s.log, s.sink, "ipc", e)
}
