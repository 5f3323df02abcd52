package client

import (
	"encoding/json"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidamian/mcp-workshop/internal/logging"
	"github.com/aidamian/mcp-workshop/internal/protocol"
)

// fakeTransport scripts the worker side of the protocol in memory.
type fakeTransport struct {
	handshake     []byte
	handshakeDone bool
	respond       func(req protocol.Request) ([]byte, error)
	last          *protocol.Request
	sent          []protocol.Request
	writeClosed   bool
	closed        bool
}

func (f *fakeTransport) Send(v any) error {
	req, ok := v.(protocol.Request)
	if !ok {
		return fmt.Errorf("unexpected message type %T", v)
	}
	f.last = &req
	f.sent = append(f.sent, req)
	return nil
}

func (f *fakeTransport) Receive() ([]byte, error) {
	if !f.handshakeDone {
		f.handshakeDone = true
		if f.handshake == nil {
			return nil, io.EOF
		}
		return f.handshake, nil
	}
	if f.respond == nil || f.last == nil {
		return nil, io.EOF
	}
	return f.respond(*f.last)
}

func (f *fakeTransport) CloseWrite() error {
	f.writeClosed = true
	return nil
}

func (f *fakeTransport) Close(_ time.Duration) error {
	f.closed = true
	return nil
}

func readyLine(t *testing.T) []byte {
	t.Helper()
	line, err := json.Marshal(protocol.NewReady())
	require.NoError(t, err)
	return line
}

func newFakeClient(t *testing.T, ft *fakeTransport) *Client {
	t.Helper()
	return New("unused", nil, logging.NoOp(), WithTransport(func() (Transport, error) {
		return ft, nil
	}))
}

func echoResult(result map[string]any) func(protocol.Request) ([]byte, error) {
	return func(req protocol.Request) ([]byte, error) {
		return json.Marshal(protocol.NewResult(req.ID, result))
	}
}

func TestInvokeBeforeStart(t *testing.T) {
	cli := newFakeClient(t, &fakeTransport{handshake: nil})
	_, err := cli.Invoke(protocol.ToolGetPrice, map[string]string{"symbol": "AAPL"})
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestStartHandshake(t *testing.T) {
	tests := []struct {
		name      string
		handshake []byte
	}{
		{name: "missing line", handshake: nil},
		{name: "not json", handshake: []byte("hello world")},
		{name: "wrong type", handshake: []byte(`{"type":"response","id":"x"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := &fakeTransport{handshake: tt.handshake}
			cli := newFakeClient(t, ft)

			err := cli.Start()
			var handshakeErr *HandshakeError
			require.ErrorAs(t, err, &handshakeErr)
			assert.True(t, ft.closed, "transport must be released on handshake failure")
			assert.False(t, cli.Running())
		})
	}
}

func TestStartIsIdempotent(t *testing.T) {
	dials := 0
	cli := New("unused", nil, logging.NoOp(), WithTransport(func() (Transport, error) {
		dials++
		return &fakeTransport{handshake: readyLine(t)}, nil
	}))

	require.NoError(t, cli.Start())
	require.NoError(t, cli.Start())
	assert.Equal(t, 1, dials)
}

func TestInvokeReturnsResult(t *testing.T) {
	ft := &fakeTransport{
		handshake: readyLine(t),
		respond:   echoResult(map[string]any{"data": map[string]any{"symbol": "AAPL"}}),
	}
	cli := newFakeClient(t, ft)
	require.NoError(t, cli.Start())

	result, err := cli.Invoke(protocol.ToolGetPrice, map[string]string{"symbol": "AAPL"})
	require.NoError(t, err)
	assert.Contains(t, result, "data")

	require.Len(t, ft.sent, 1)
	assert.Equal(t, protocol.TypeInvoke, ft.sent[0].Type)
	assert.NotEmpty(t, ft.sent[0].ID)
}

func TestInvokeGeneratesFreshIDs(t *testing.T) {
	ft := &fakeTransport{handshake: readyLine(t), respond: echoResult(map[string]any{})}
	cli := newFakeClient(t, ft)
	require.NoError(t, cli.Start())

	_, err := cli.Invoke(protocol.ToolGetPrice, map[string]string{"symbol": "AAPL"})
	require.NoError(t, err)
	_, err = cli.Invoke(protocol.ToolGetPrice, map[string]string{"symbol": "MSFT"})
	require.NoError(t, err)

	require.Len(t, ft.sent, 2)
	assert.NotEqual(t, ft.sent[0].ID, ft.sent[1].ID)
}

func TestInvokeCorrelationMismatch(t *testing.T) {
	ft := &fakeTransport{
		handshake: readyLine(t),
		respond: func(protocol.Request) ([]byte, error) {
			return json.Marshal(protocol.NewResult("some-other-id", map[string]any{}))
		},
	}
	cli := newFakeClient(t, ft)
	require.NoError(t, cli.Start())

	_, err := cli.Invoke(protocol.ToolGetPrice, map[string]string{"symbol": "AAPL"})
	var correlationErr *CorrelationError
	require.ErrorAs(t, err, &correlationErr)
	assert.Equal(t, "some-other-id", correlationErr.Got)
}

func TestInvokeRemoteError(t *testing.T) {
	ft := &fakeTransport{
		handshake: readyLine(t),
		respond: func(req protocol.Request) ([]byte, error) {
			return json.Marshal(protocol.NewError(req.ID, "Price not available for symbol ZZZZ."))
		},
	}
	cli := newFakeClient(t, ft)
	require.NoError(t, cli.Start())

	_, err := cli.Invoke(protocol.ToolGetPrice, map[string]string{"symbol": "ZZZZ"})
	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "Price not available for symbol ZZZZ.", remoteErr.Message)
}

func TestInvokeProtocolErrors(t *testing.T) {
	tests := []struct {
		name    string
		respond func(protocol.Request) ([]byte, error)
	}{
		{name: "empty line", respond: func(protocol.Request) ([]byte, error) { return []byte("  "), nil }},
		{name: "worker died", respond: func(protocol.Request) ([]byte, error) { return nil, io.EOF }},
		{name: "garbage", respond: func(protocol.Request) ([]byte, error) { return []byte("not json"), nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := &fakeTransport{handshake: readyLine(t), respond: tt.respond}
			cli := newFakeClient(t, ft)
			require.NoError(t, cli.Start())

			_, err := cli.Invoke(protocol.ToolGetPrice, map[string]string{"symbol": "AAPL"})
			var protocolErr *ProtocolError
			require.ErrorAs(t, err, &protocolErr)
		})
	}
}

func TestDescribeParsesCatalog(t *testing.T) {
	ft := &fakeTransport{
		handshake: readyLine(t),
		respond: echoResult(map[string]any{"tools": []map[string]any{
			{"name": "get_price", "description": "Fetch one price."},
			{"name": "compare", "description": "Compare two prices."},
		}}),
	}
	cli := newFakeClient(t, ft)
	require.NoError(t, cli.Start())

	defs, err := cli.Describe()
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "get_price", defs[0].Name)
}

func TestShutdownReleasesTransport(t *testing.T) {
	ft := &fakeTransport{handshake: readyLine(t)}
	cli := newFakeClient(t, ft)
	require.NoError(t, cli.Start())

	require.NoError(t, cli.Shutdown())
	assert.True(t, ft.writeClosed)
	assert.True(t, ft.closed)
	assert.False(t, cli.Running())

	// best-effort shutdown request went out before teardown
	require.Len(t, ft.sent, 1)
	assert.Equal(t, protocol.TypeShutdown, ft.sent[0].Type)

	_, err := cli.Invoke(protocol.ToolGetPrice, map[string]string{"symbol": "AAPL"})
	assert.ErrorIs(t, err, ErrNotRunning)

	// idempotent
	require.NoError(t, cli.Shutdown())
}
