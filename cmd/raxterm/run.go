// Copyright © 2025 Raxol contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/raxterm/run.go
// Summary: The interactive session loop: child shell on a pty, emulator
// in the middle, tcell screen on the outside.

package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
	"github.com/gdamore/tcell/v2"

	"github.com/Hydepwns/raxol-sub015/config"
	"github.com/Hydepwns/raxol-sub015/render"
	"github.com/Hydepwns/raxol-sub015/term"
)

// runTerminal wires pty, emulator, and screen together and blocks until
// the child exits or the user closes the screen.
func runTerminal(cfg config.Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.EnablePaste()

	cols, rows := screen.Size()
	if cols <= 0 || rows <= 0 {
		cols, rows = cfg.Columns, cfg.Rows
	}

	var search *term.SearchIndex
	if cfg.SearchIndexPath != "" {
		search, err = term.NewSearchIndex(cfg.SearchIndexPath)
		if err != nil {
			log.Printf("Raxterm: search index unavailable: %v", err)
		} else {
			defer search.Close()
		}
	}

	shell := cfg.Shell
	if shell == "" {
		shell = os.Getenv("SHELL")
	}
	if shell == "" {
		shell = "/bin/sh"
	}

	cmd := exec.Command(shell)
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")
	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		return fmt.Errorf("start shell: %w", err)
	}
	defer ptmx.Close()

	var ptyMu sync.Mutex
	ptyWrite := func(b []byte) {
		ptyMu.Lock()
		defer ptyMu.Unlock()
		ptmx.Write(b)
	}

	opts := []term.Option{
		term.WithScrollback(cfg.Scrollback),
		term.WithResponseHandler(ptyWrite),
		term.WithBellHandler(func() { screen.Beep() }),
	}
	if search != nil {
		opts = append(opts, term.WithSearchIndex(search))
	}
	emu, err := term.NewEmulator(cols, rows, opts...)
	if err != nil {
		return err
	}
	renderer := render.New(screen)

	// The reader goroutine owns feeding; redraw requests are coalesced
	// through a 1-deep channel.
	redraw := make(chan struct{}, 1)
	childDone := make(chan struct{})
	go func() {
		defer close(childDone)
		buf := make([]byte, 32*1024)
		for {
			n, err := ptmx.Read(buf)
			if n > 0 {
				emu.Feed(buf[:n])
				select {
				case redraw <- struct{}{}:
				default:
				}
			}
			if err != nil {
				if err != io.EOF {
					log.Printf("Raxterm: pty read: %v", err)
				}
				return
			}
		}
	}()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go screen.ChannelEvents(events, quit)

	for {
		select {
		case <-childDone:
			close(quit)
			return cmd.Wait()
		case <-redraw:
			renderer.Draw(emu)
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				w, h := ev.Size()
				if err := emu.Resize(w, h); err != nil {
					log.Printf("Raxterm: resize: %v", err)
					continue
				}
				pty.Setsize(ptmx, &pty.Winsize{Rows: uint16(h), Cols: uint16(w)})
				renderer.Invalidate()
				renderer.Draw(emu)
			case *tcell.EventPaste:
				if ev.Start() && emu.Modes().BracketedPaste {
					ptyWrite([]byte("\x1b[200~"))
				}
				if ev.End() && emu.Modes().BracketedPaste {
					ptyWrite([]byte("\x1b[201~"))
				}
			case *tcell.EventKey:
				ptyWrite(keyToBytes(ev, emu.Modes()))
			}
		}
	}
}

// keyToBytes translates a tcell key event into the byte sequence the
// child expects, honoring application cursor key mode.
func keyToBytes(ev *tcell.EventKey, modes term.ModeState) []byte {
	arrow := func(final byte) []byte {
		if modes.ApplicationCursorKeys {
			return []byte{0x1b, 'O', final}
		}
		return []byte{0x1b, '[', final}
	}
	switch ev.Key() {
	case tcell.KeyEnter:
		return []byte("\r")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return []byte{0x7f}
	case tcell.KeyTab:
		return []byte("\t")
	case tcell.KeyBacktab:
		return []byte("\x1b[Z")
	case tcell.KeyEsc:
		return []byte("\x1b")
	case tcell.KeyUp:
		return arrow('A')
	case tcell.KeyDown:
		return arrow('B')
	case tcell.KeyRight:
		return arrow('C')
	case tcell.KeyLeft:
		return arrow('D')
	case tcell.KeyHome:
		return arrow('H')
	case tcell.KeyEnd:
		return arrow('F')
	case tcell.KeyPgUp:
		return []byte("\x1b[5~")
	case tcell.KeyPgDn:
		return []byte("\x1b[6~")
	case tcell.KeyDelete:
		return []byte("\x1b[3~")
	case tcell.KeyInsert:
		return []byte("\x1b[2~")
	case tcell.KeyCtrlSpace:
		return []byte{0}
	default:
		if ev.Key() >= tcell.KeyCtrlA && ev.Key() <= tcell.KeyCtrlZ {
			return []byte{byte(ev.Key())}
		}
		if ev.Rune() != 0 {
			return []byte(string(ev.Rune()))
		}
	}
	return nil
}
