//go:build !unix

package host

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

// TerminalHost feeds stdin into a Console. Without non-blocking reads the
// reader goroutine outlives a cancelled Run until the next key arrives.
type TerminalHost struct {
	console *Console
	file    *os.File
}

func NewTerminalHost(console *Console) *TerminalHost {
	return &TerminalHost{console: console, file: os.Stdin}
}

func (h *TerminalHost) Run(ctx context.Context) error {
	fd := int(h.file.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return errors.Wrap(err, "term: set raw mode")
	}
	defer term.Restore(fd, oldState)

	errc := make(chan error, 1)
	go func() {
		errc <- PumpKeys(h.file, h.console)
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errc:
		return err
	}
}
