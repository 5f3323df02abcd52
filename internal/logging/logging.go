package logging

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// Logger is the logging capability handed to the worker and the client.
// Implementations must be safe for use from a single goroutine at a time;
// the console implementation is additionally safe for concurrent use.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

var _ Logger = (*noOpLogger)(nil)

type noOpLogger struct{}

// NoOp returns a logger that discards everything.
func NoOp() Logger {
	return &noOpLogger{}
}

func (n *noOpLogger) Debugf(_ string, _ ...any) {}
func (n *noOpLogger) Infof(_ string, _ ...any)  {}
func (n *noOpLogger) Warnf(_ string, _ ...any)  {}
func (n *noOpLogger) Errorf(_ string, _ ...any) {}

var _ Logger = (*Console)(nil)

// Console writes colourised, prefixed lines to a single stream. The worker
// logs on stderr so that stdout stays reserved for protocol messages.
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	prefix string
	tint   *color.Color
	debug  bool
}

var (
	debugTint = color.New(color.FgHiBlack)
	warnTint  = color.New(color.FgYellow)
	errorTint = color.New(color.FgRed)
)

// NewConsole builds a console logger. The tint is applied to Infof lines so
// each component keeps its own colour in the interleaved session output.
func NewConsole(out io.Writer, prefix string, tint *color.Color) *Console {
	return &Console{out: out, prefix: prefix, tint: tint}
}

// SetDebug toggles Debugf output. Disabled by default.
func (c *Console) SetDebug(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.debug = enabled
}

func (c *Console) Debugf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.debug {
		return
	}
	c.write(debugTint, "[debug]", format, args...)
}

func (c *Console) Infof(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.write(c.tint, c.prefix, format, args...)
}

func (c *Console) Warnf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.write(warnTint, c.prefix, format, args...)
}

func (c *Console) Errorf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.write(errorTint, c.prefix, format, args...)
}

func (c *Console) write(tint *color.Color, prefix, format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	fmt.Fprintln(c.out, tint.Sprintf("%s %s", prefix, line))
}
