package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"

	"golang.org/x/term"
)

const defaultPager = "less -RSX"

// pagerFor returns the terminal behind out and its height, or nil when out
// is not an interactive terminal.
func pagerFor(out io.Writer) (*os.File, int) {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return nil, 0
	}
	_, h, err := term.GetSize(int(f.Fd()))
	if err != nil || h <= 0 {
		return f, 0
	}
	return f, h
}

// withPager renders into memory and sends the result through $PAGER when it
// does not fit the terminal. Short output and non-terminals get it directly.
func withPager(ctx context.Context, out, errOut io.Writer, write func(io.Writer) error) error {
	tty, height := pagerFor(out)
	if tty == nil {
		return write(out)
	}
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return err
	}
	if height > 0 && bytes.Count(buf.Bytes(), []byte{'\n'}) < height {
		_, err := buf.WriteTo(out)
		return err
	}

	pager := os.Getenv("PAGER")
	if pager == "" {
		pager = defaultPager
	}
	cmd := exec.CommandContext(ctx, "sh", "-c", pager)
	cmd.Stdin = &buf
	cmd.Stdout = tty
	cmd.Stderr = errOut
	if err := cmd.Run(); err != nil {
		// pager missing or killed; fall back to plain output
		if _, ok := err.(*exec.ExitError); !ok {
			_, werr := buf.WriteTo(out)
			return werr
		}
		return err
	}
	return nil
}
