// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ashbuk/croaker/internal/ipc"
	"github.com/ashbuk/croaker/internal/utils"
)

const defaultClientTimeout = 5 * time.Second

type clientOptions struct {
	socketPath string
	timeoutSec int
}

func parseClientOptions(verb string, args []string) (*clientOptions, error) {
	opts := &clientOptions{}

	fs := flag.NewFlagSet(verb, flag.ContinueOnError)
	fs.StringVar(&opts.socketPath, "socket", "", "Path to the croaker IPC socket (defaults to the standard cache-dir location)")
	fs.IntVar(&opts.timeoutSec, "timeout", 0, "Override the request timeout in seconds")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: croaker %s [-socket path] [-timeout seconds]\n", verb)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

// runClientCommand sends verb to the running daemon's control socket and
// maps the reply onto spec.md §6's exit codes: 0 on "ok" (or a status
// line), 1 on "error: ...", 2 if the daemon isn't reachable at all.
func runClientCommand(verb string, args []string) int {
	opts, err := parseClientOptions(verb, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	socketPath := opts.socketPath
	if socketPath == "" {
		socketPath = utils.GetDefaultSocketPath()
	}

	timeout := defaultClientTimeout
	if opts.timeoutSec > 0 {
		timeout = time.Duration(opts.timeoutSec) * time.Second
	}

	resp, err := ipc.SendRequest(socketPath, ipc.Request{Command: verb}, timeout)
	if err != nil {
		var opErr *net.OpError
		if errors.As(err, &opErr) {
			fmt.Fprintf(os.Stderr, "croaker: daemon not running at %s\n", socketPath)
			return 2
		}
		fmt.Fprintf(os.Stderr, "croaker: %v\n", err)
		return 1
	}

	fmt.Println(resp.Message)
	return 0
}
