// Package clip copies preview text to the system clipboard, falling back to
// an OSC 52 escape sequence when no clipboard utility is available (for
// example over SSH).
package clip

import (
	"errors"
	"fmt"
	"io"

	"github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
)

// Method reports how the text was copied.
type Method string

const (
	MethodClipboard Method = "clipboard"
	MethodOSC52     Method = "osc52"
)

var ErrEmpty = errors.New("nothing to copy")

// Copier writes text to the clipboard.
type Copier struct {
	// Term receives the OSC 52 sequence.
	Term io.Writer
	// write is the system clipboard writer; nil when none is installed.
	write func(string) error
}

func New(term io.Writer) *Copier {
	c := &Copier{Term: term}
	if !clipboard.Unsupported {
		c.write = clipboard.WriteAll
	}
	return c
}

// Copy tries the system clipboard first, then OSC 52.
func (c *Copier) Copy(text string) (Method, error) {
	if text == "" {
		return "", ErrEmpty
	}
	var primary error
	if c.write != nil {
		if primary = c.write(text); primary == nil {
			return MethodClipboard, nil
		}
	}
	if c.Term == nil {
		return "", fmt.Errorf("copy failed: %w", errors.Join(primary, errors.New("no terminal for osc52")))
	}
	if _, err := osc52.New(text).WriteTo(c.Term); err != nil {
		return "", fmt.Errorf("copy failed: %w", errors.Join(primary, err))
	}
	return MethodOSC52, nil
}
