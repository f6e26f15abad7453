//go:build unix

// terminal_host.go - raw stdin feeder for the host console device

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/intuitionamiga/z80engine
License: GPLv3 or later
*/

package host

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// TerminalHost puts stdin into raw, non-blocking mode and feeds every byte
// into a Console. It is only used interactively, never from tests.
type TerminalHost struct {
	console *Console
	file    *os.File
}

func NewTerminalHost(console *Console) *TerminalHost {
	return &TerminalHost{console: console, file: os.Stdin}
}

// Run reads until ctx is cancelled or stdin closes, then restores the
// terminal. Ctrl+C returns context.Canceled since raw mode turns off SIGINT.
func (h *TerminalHost) Run(ctx context.Context) error {
	fd := int(h.file.Fd())

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return errors.Wrap(err, "term: set raw mode")
	}
	defer term.Restore(fd, oldState)

	if err := unix.SetNonblock(fd, true); err != nil {
		return errors.Wrap(err, "term: set nonblocking stdin")
	}
	defer unix.SetNonblock(fd, false)

	buf := make([]byte, 64)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		n, err := unix.Read(fd, buf)
		if n > 0 && !h.console.FeedKeys(buf[:n]) {
			return context.Canceled
		}
		switch {
		case err == unix.EAGAIN || err == unix.EINTR:
			time.Sleep(5 * time.Millisecond)
		case err != nil:
			return errors.Wrap(err, "term: read stdin")
		case n == 0:
			return nil
		}
	}
}
