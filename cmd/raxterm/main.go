// Copyright © 2025 Raxol contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/raxterm/main.go
// Summary: Command line entry point.

package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
