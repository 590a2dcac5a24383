// Copyright © 2025 Raxol contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/raxterm/root.go
// Summary: Cobra command definitions: the interactive terminal and the
// replay tool for recorded sessions.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Hydepwns/raxol-sub015/config"
	xterm "github.com/Hydepwns/raxol-sub015/term"
)

var (
	flagConfig string
	flagShell  string
)

var rootCmd = &cobra.Command{
	Use:   "raxterm",
	Short: "A terminal emulator core with history search",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return err
		}
		if flagShell != "" {
			cfg.Shell = flagShell
		}
		return runTerminal(cfg)
	},
	SilenceUsage: true,
}

var replayCmd = &cobra.Command{
	Use:   "replay <recording>",
	Short: "Replay a recorded byte stream and print the final screen",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		cols, rows := 80, 24
		if term.IsTerminal(int(os.Stdout.Fd())) {
			if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				cols, rows = w, h
			}
		}

		emu, err := xterm.NewEmulator(cols, rows)
		if err != nil {
			return err
		}
		emu.Feed(data)

		snap := emu.Snapshot()
		out := cmd.OutOrStdout()
		for row := 0; row < snap.Height; row++ {
			var sb strings.Builder
			for col := 0; col < snap.Width; col++ {
				c := snap.Cell(row, col)
				if c.IsContinuation() {
					continue
				}
				sb.WriteString(c.Glyph)
			}
			fmt.Fprintln(out, strings.TrimRight(sb.String(), " "))
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "config file path")
	rootCmd.Flags().StringVarP(&flagShell, "shell", "s", "", "shell to run (overrides $SHELL)")
	rootCmd.AddCommand(replayCmd)
}
