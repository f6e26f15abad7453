package host

import (
	"bufio"
	"context"
	"io"
	"sync"

	"github.com/pkg/errors"
)

// Console port assignments, low address byte only.
const (
	ConsoleDataPort   = 0x01
	ConsoleStatusPort = 0x02
)

// Console is a byte-stream terminal device. OUT to the data port writes to
// the output stream; IN from the data port pops the next queued input byte
// (0 when empty) and the status port reads 1 while input is waiting.
// Feed may be called from any goroutine.
type Console struct {
	mu    sync.Mutex
	input []byte
	out   io.Writer
	err   error
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// Feed queues bytes for the program to read.
func (c *Console) Feed(data []byte) {
	c.mu.Lock()
	c.input = append(c.input, data...)
	c.mu.Unlock()
}

// Pending reports whether input is waiting.
func (c *Console) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.input) > 0
}

// Err returns the first error from the output stream.
func (c *Console) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Console) In(port uint16) byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch byte(port) {
	case ConsoleDataPort:
		if len(c.input) == 0 {
			return 0
		}
		b := c.input[0]
		c.input = c.input[1:]
		return b
	case ConsoleStatusPort:
		if len(c.input) > 0 {
			return 1
		}
	}
	return 0
}

func (c *Console) Out(port uint16, value byte) {
	if byte(port) != ConsoleDataPort {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.out == nil || c.err != nil {
		return
	}
	if _, err := c.out.Write([]byte{value}); err != nil {
		c.err = err
	}
}

// KeyInterrupt is Ctrl+C. Raw mode delivers it as a byte instead of SIGINT.
const KeyInterrupt = 0x03

// FeedKeys translates raw terminal bytes and queues them. It stops at
// KeyInterrupt, queueing only what came before it, and reports false.
func (c *Console) FeedKeys(data []byte) bool {
	keys := make([]byte, 0, len(data))
	for _, b := range data {
		if b == KeyInterrupt {
			c.Feed(keys)
			return false
		}
		keys = append(keys, TranslateKey(b))
	}
	c.Feed(keys)
	return true
}

// PumpKeys copies r into the console until r ends or delivers Ctrl+C, which
// returns context.Canceled.
func PumpKeys(r io.Reader, c *Console) error {
	br := bufio.NewReader(r)
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "term: read stdin")
		}
		if !c.FeedKeys([]byte{b}) {
			return context.Canceled
		}
	}
}

// CRLFWriter expands LF to CR LF for a terminal with output processing off.
type CRLFWriter struct {
	w io.Writer
}

func NewCRLFWriter(w io.Writer) *CRLFWriter {
	return &CRLFWriter{w: w}
}

func (cw *CRLFWriter) Write(p []byte) (int, error) {
	written := 0
	for len(p) > 0 {
		i := 0
		for i < len(p) && p[i] != '\n' {
			i++
		}
		if i > 0 {
			n, err := cw.w.Write(p[:i])
			written += n
			if err != nil {
				return written, err
			}
		}
		if i == len(p) {
			break
		}
		if _, err := cw.w.Write([]byte("\r\n")); err != nil {
			return written, err
		}
		written++
		p = p[i+1:]
	}
	return written, nil
}

// TranslateKey maps raw-mode key codes onto what console programs expect:
// Enter arrives as CR and Backspace as DEL.
func TranslateKey(b byte) byte {
	switch b {
	case '\r':
		return '\n'
	case 0x7F:
		return 0x08
	}
	return b
}
