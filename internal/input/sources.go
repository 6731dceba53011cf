// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package input

import (
	"context"
	"sync"

	"github.com/ashbuk/croaker/config"
	"github.com/ashbuk/croaker/internal/logger"
)

// Sources aggregates the three InputSources producers and runs them
// concurrently for the lifetime of the daemon.
type Sources struct {
	evdev  *EvdevSource
	portal *PortalSource
	socket *SocketSource

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds all three producers against cfg and sink. socketPath is the
// Unix-domain socket path for the CLI control server.
func New(cfg *config.Config, sink Sink, log logger.Logger, socketPath string) *Sources {
	return &Sources{
		evdev:  NewEvdevSource(cfg, sink, log),
		portal: NewPortalSource(cfg, sink, log),
		socket: NewSocketSource(socketPath, sink, log),
	}
}

// Start launches all three producers in the background.
func (s *Sources) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for _, run := range []func(context.Context){s.evdev.Run, s.portal.Run, s.socket.Run} {
		s.wg.Add(1)
		go func(run func(context.Context)) {
			defer s.wg.Done()
			run(ctx)
		}(run)
	}
}

// Stop cancels all producers and waits for them to return.
func (s *Sources) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}
