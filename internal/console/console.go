package console

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Console writes human-facing progress lines for the CLI.
// Each call writes exactly one line under the console's lock, so lines from
// concurrent tasks never interleave.
type Console struct {
	mu    sync.Mutex
	out   io.Writer
	err   io.Writer
	quiet bool

	info *color.Color
	warn *color.Color
	fail *color.Color
	bold *color.Color
}

// Option configures a Console.
type Option func(*Console)

// WithWriters redirects standard and error output.
func WithWriters(out, err io.Writer) Option {
	return func(c *Console) {
		c.out = out
		c.err = err
	}
}

// WithQuiet suppresses General and Info lines. Warnings and errors are still written.
func WithQuiet(quiet bool) Option {
	return func(c *Console) {
		c.quiet = quiet
	}
}

// New creates a Console writing to stdout and stderr.
// Colours are used only when noColor is false and the output is a terminal.
func New(noColor bool, opts ...Option) *Console {
	c := &Console{
		out:  os.Stdout,
		err:  os.Stderr,
		info: color.New(color.FgCyan),
		warn: color.New(color.FgYellow),
		fail: color.New(color.FgRed, color.Bold),
		bold: color.New(color.Bold),
	}

	for _, opt := range opts {
		opt(c)
	}

	if noColor || !isTTY(c.out) {
		for _, col := range []*color.Color{c.info, c.warn, c.fail, c.bold} {
			col.DisableColor()
		}
	}

	return c
}

// General writes an unprefixed line to standard output.
func (c *Console) General(format string, a ...interface{}) {
	if c.quiet {
		return
	}
	c.writeLine(c.out, c.bold, "", format, a...)
}

// Info writes an [INFO] line to standard output.
func (c *Console) Info(format string, a ...interface{}) {
	if c.quiet {
		return
	}
	c.writeLine(c.out, c.info, "[INFO] ", format, a...)
}

// Warn writes a [WARN] line to error output.
func (c *Console) Warn(format string, a ...interface{}) {
	c.writeLine(c.err, c.warn, "[WARN] ", format, a...)
}

// Error writes an [ERROR] line to error output.
func (c *Console) Error(format string, a ...interface{}) {
	c.writeLine(c.err, c.fail, "[ERROR] ", format, a...)
}

func (c *Console) writeLine(w io.Writer, col *color.Color, prefix, format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)

	c.mu.Lock()
	defer c.mu.Unlock()

	if prefix == "" {
		_, _ = fmt.Fprintln(w, col.Sprint(msg))
		return
	}
	_, _ = fmt.Fprintln(w, col.Sprint(prefix)+msg)
}

// isTTY checks if the writer is a terminal
func isTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}
