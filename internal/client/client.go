// Package client spawns the stock tool worker and drives the request/
// response protocol over its stdio pipes: readiness handshake, correlated
// invocations, and timeout-bounded shutdown.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aidamian/mcp-workshop/internal/logging"
	"github.com/aidamian/mcp-workshop/internal/protocol"
)

// DefaultShutdownGrace is how long Shutdown waits for the worker to exit
// before killing it.
const DefaultShutdownGrace = 2 * time.Second

// Client owns exactly one worker process for its lifetime. It issues at most
// one outstanding request at a time and blocks until the matching response
// arrives. Callers must guarantee Shutdown runs on every exit path after a
// successful Start.
type Client struct {
	command   string
	args      []string
	env       []string
	dial      func() (Transport, error)
	grace     time.Duration
	log       logging.Logger
	transport Transport
}

// Option tweaks client construction.
type Option func(*Client)

// WithShutdownGrace overrides the forced-termination deadline.
func WithShutdownGrace(grace time.Duration) Option {
	return func(c *Client) { c.grace = grace }
}

// WithEnv appends variables to the worker process environment.
func WithEnv(env ...string) Option {
	return func(c *Client) { c.env = append(c.env, env...) }
}

// WithTransport replaces the subprocess transport. Used by tests to drive
// the protocol in memory.
func WithTransport(dial func() (Transport, error)) Option {
	return func(c *Client) { c.dial = dial }
}

// New builds a client that will run the worker binary with the given
// arguments.
func New(command string, args []string, log logging.Logger, opts ...Option) *Client {
	if log == nil {
		log = logging.NoOp()
	}
	c := &Client{
		command: command,
		args:    args,
		grace:   DefaultShutdownGrace,
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.dial == nil {
		c.dial = func() (Transport, error) {
			return startWorkerProcess(c.command, c.args, c.env)
		}
	}
	return c
}

// Start spawns the worker and blocks for the readiness line. Calling Start
// on a running client is a no-op.
func (c *Client) Start() error {
	if c.transport != nil {
		return nil
	}

	t, err := c.dial()
	if err != nil {
		return fmt.Errorf("failed to start worker: %w", err)
	}

	line, err := t.Receive()
	if err != nil {
		_ = t.Close(c.grace)
		return &HandshakeError{Err: err}
	}

	var ready protocol.Ready
	if err := json.Unmarshal(line, &ready); err != nil || ready.Type != protocol.TypeReady {
		_ = t.Close(c.grace)
		return &HandshakeError{Line: string(line)}
	}

	c.log.Debugf("worker ready (protocol version %s)", ready.Version)
	c.transport = t
	return nil
}

// Invoke sends one tool call and blocks for its response. Returns the
// result mapping on success.
func (c *Client) Invoke(tool protocol.Tool, arguments map[string]string) (map[string]any, error) {
	req := protocol.Request{
		Type:      protocol.TypeInvoke,
		ID:        uuid.NewString(),
		Tool:      string(tool),
		Arguments: arguments,
	}
	return c.roundTrip(req)
}

// Describe fetches the worker's tool catalog.
func (c *Client) Describe() ([]protocol.ToolDefinition, error) {
	req := protocol.Request{Type: protocol.TypeDescribe, ID: uuid.NewString()}
	result, err := c.roundTrip(req)
	if err != nil {
		return nil, err
	}

	// The catalog arrives as generic JSON inside the result mapping.
	raw, err := json.Marshal(result["tools"])
	if err != nil {
		return nil, &ProtocolError{Reason: "malformed tool catalog", Err: err}
	}
	var defs []protocol.ToolDefinition
	if err := json.Unmarshal(raw, &defs); err != nil {
		return nil, &ProtocolError{Reason: "malformed tool catalog", Err: err}
	}
	return defs, nil
}

// Shutdown asks the worker to exit, waits up to the grace period, and kills
// it if it is still running. Safe to call when nothing is running; the
// worker process is never left alive after Shutdown returns.
func (c *Client) Shutdown() error {
	if c.transport == nil {
		return nil
	}
	t := c.transport
	c.transport = nil

	req := protocol.Request{Type: protocol.TypeShutdown, ID: uuid.NewString()}
	c.log.Debugf("sending shutdown request %s", req.ID)
	// Best effort: a worker that already died cannot acknowledge.
	_ = t.Send(req)
	_ = t.CloseWrite()
	return t.Close(c.grace)
}

// Running reports whether a worker is currently attached.
func (c *Client) Running() bool {
	return c.transport != nil
}

func (c *Client) roundTrip(req protocol.Request) (map[string]any, error) {
	if c.transport == nil {
		return nil, ErrNotRunning
	}

	c.log.Debugf("sending request %s (%s)", req.ID, req.Type)
	if err := c.transport.Send(req); err != nil {
		return nil, &ProtocolError{Reason: "failed to send request", Err: err}
	}

	line, err := c.transport.Receive()
	if err != nil {
		return nil, &ProtocolError{Reason: "worker produced no response", Err: err}
	}
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil, &ProtocolError{Reason: "worker returned an empty response"}
	}

	var resp protocol.Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, &ProtocolError{Reason: "failed to parse response", Err: err}
	}
	if resp.ID != req.ID {
		return nil, &CorrelationError{Sent: req.ID, Got: resp.ID}
	}
	if resp.Error != "" {
		return nil, &RemoteError{Message: resp.Error}
	}
	return resp.Result, nil
}
