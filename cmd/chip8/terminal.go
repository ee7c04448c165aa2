package main

import (
	"bytes"
	"context"
	"io"
	"os"

	"golang.org/x/term"
)

const keyInterrupt = 0x03 // ^C, as raw mode delivers it

// terminal reads an interactive stdin in raw mode, without blocking the
// emulator when no key is waiting.
type terminal struct {
	fd     int
	state  *term.State
	keys   chan byte
	cancel context.CancelFunc
}

// openTerminal puts stdin into raw mode and starts reading it.
// A ^C cancels the context.
func openTerminal(cancel context.CancelFunc) (tm *terminal, err error) {
	fd := int(os.Stdin.Fd())

	state, err := term.MakeRaw(fd)
	if err != nil {
		return
	}

	tm = &terminal{
		fd:     fd,
		state:  state,
		keys:   make(chan byte, 16),
		cancel: cancel,
	}

	go func() {
		defer close(tm.keys)
		var one [1]byte
		for {
			n, err := os.Stdin.Read(one[:])
			if n == 1 {
				if one[0] == keyInterrupt {
					tm.cancel()
					return
				}
				tm.keys <- one[0]
			}
			if err != nil {
				return
			}
		}
	}()

	return
}

// Read returns at most one waiting key, or nothing.
func (tm *terminal) Read(data []byte) (n int, err error) {
	if len(data) == 0 {
		return
	}

	select {
	case key, ok := <-tm.keys:
		if !ok {
			err = io.EOF
			return
		}
		data[0] = key
		n = 1
	default:
	}

	return
}

// Close restores the terminal.
func (tm *terminal) Close() error {
	return term.Restore(tm.fd, tm.state)
}

// crlf ends lines with CR LF, as raw mode no longer does.
type crlf struct {
	io.Writer
}

func (cw crlf) Write(data []byte) (n int, err error) {
	_, err = cw.Writer.Write(bytes.ReplaceAll(data, []byte("\n"), []byte("\r\n")))
	if err != nil {
		return
	}

	n = len(data)
	return
}
