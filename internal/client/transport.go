package client

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

// Transport moves one JSON line at a time between the client and the worker.
// There is a single production implementation over subprocess pipes; the
// interface exists so the protocol driver can be exercised without spawning
// processes.
type Transport interface {
	// Send writes v as one JSON line and flushes it.
	Send(v any) error
	// Receive blocks for the next line. io.EOF means the peer closed its
	// output.
	Receive() ([]byte, error)
	// CloseWrite closes the request side so the peer sees EOF on its input.
	CloseWrite() error
	// Close releases the transport, waiting up to grace for the peer to exit
	// before forcing termination.
	Close(grace time.Duration) error
}

var _ Transport = (*stdioTransport)(nil)

// stdioTransport runs the worker as a child process and speaks NDJSON over
// its stdin/stdout pipes. The worker's stderr is passed through so its
// lifecycle logs stay visible.
type stdioTransport struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	enc    *json.Encoder
	stdout *bufio.Scanner
}

func startWorkerProcess(command string, args, extraEnv []string) (*stdioTransport, error) {
	cmd := exec.Command(command, args...)
	cmd.Stderr = os.Stderr
	if len(extraEnv) > 0 {
		cmd.Env = append(os.Environ(), extraEnv...)
	}

	stdinPipe, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdin pipe: %w", err)
	}
	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start worker process: %w", err)
	}

	return &stdioTransport{
		cmd:    cmd,
		stdin:  stdinPipe,
		enc:    json.NewEncoder(stdinPipe),
		stdout: bufio.NewScanner(stdoutPipe),
	}, nil
}

// Send writes straight to the pipe; json.Encoder appends the newline and
// pipes carry no userspace buffering, so each message is flushed as written.
func (t *stdioTransport) Send(v any) error {
	return t.enc.Encode(v)
}

func (t *stdioTransport) Receive() ([]byte, error) {
	if t.stdout.Scan() {
		return t.stdout.Bytes(), nil
	}
	if err := t.stdout.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

func (t *stdioTransport) CloseWrite() error {
	return t.stdin.Close()
}

// Close waits up to grace for the process to exit and kills it otherwise. A
// forced kill is the expected teardown for an unresponsive worker, not an
// error.
func (t *stdioTransport) Close(grace time.Duration) error {
	done := make(chan error, 1)
	go func() { done <- t.cmd.Wait() }()

	select {
	case err := <-done:
		return err
	case <-time.After(grace):
		_ = t.cmd.Process.Kill()
		<-done
		return nil
	}
}
