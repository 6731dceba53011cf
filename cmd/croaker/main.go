// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Command croaker is the single binary spec.md §6 describes: `serve` runs
// the daemon, and the remaining verbs are thin clients that speak the
// Unix-socket control protocol the running daemon exposes.
package main

import (
	"fmt"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage(os.Stderr)
		return 2
	}

	verb, rest := args[0], args[1:]
	switch verb {
	case "serve":
		return runServe(rest)
	case "toggle", "cancel", "status", "toggle-output-mode", "toggle-language":
		return runClientCommand(verb, rest)
	case "configure":
		return runConfigure(rest)
	case "-h", "-help", "--help", "help":
		printUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "croaker: unknown command %q\n\n", verb)
		printUsage(os.Stderr)
		return 2
	}
}

func printUsage(w *os.File) {
	fmt.Fprintln(w, "Usage: croaker <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve                Run the daemon until SIGINT/SIGTERM")
	fmt.Fprintln(w, "  toggle               Start recording, or stop it if already recording")
	fmt.Fprintln(w, "  cancel               Abort the in-flight session, if any")
	fmt.Fprintln(w, "  status               Print phase/language/output-mode")
	fmt.Fprintln(w, "  toggle-output-mode   Cycle both -> clipboard -> direct")
	fmt.Fprintln(w, "  toggle-language      Cycle to the next configured language")
	fmt.Fprintln(w, "  configure            Interactive configuration wizard (not implemented)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'croaker <command> -h' for command-specific flags.")
}
