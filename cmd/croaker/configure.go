// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package main

import "fmt"

// runConfigure is a stub: spec.md §6 marks the interactive configuration
// wizard out of scope. Users edit ~/.config/croaker/config.toml directly.
func runConfigure(_ []string) int {
	fmt.Println("croaker configure: interactive configuration is not implemented.")
	fmt.Println("Edit ~/.config/croaker/config.toml directly, then run 'croaker serve'.")
	return 0
}
