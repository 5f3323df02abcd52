// Package worker implements the server side of the stock tool protocol: a
// single-threaded read loop that answers one JSON line per request line.
package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/aidamian/mcp-workshop/internal/logging"
	"github.com/aidamian/mcp-workshop/internal/protocol"
	"github.com/aidamian/mcp-workshop/internal/quote"
)

// Worker owns a resolver and serves requests until shutdown or EOF.
type Worker struct {
	resolver *quote.Resolver
	log      logging.Logger
}

// New builds a worker around the given resolver.
func New(resolver *quote.Resolver, log logging.Logger) *Worker {
	if log == nil {
		log = logging.NoOp()
	}
	return &Worker{resolver: resolver, log: log}
}

// Run emits the readiness line and then serves requests from in, writing
// exactly one response line per request line to out. It returns nil after a
// shutdown request or on clean EOF.
func (w *Worker) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	enc := json.NewEncoder(out)

	w.log.Infof("starting stock tool worker and sending readiness signal")
	if err := enc.Encode(protocol.NewReady()); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var req protocol.Request
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			w.log.Warnf("rejecting payload: invalid JSON")
			if err := enc.Encode(protocol.NewError(protocol.UnknownID, "Invalid JSON payload.")); err != nil {
				return err
			}
			continue
		}

		resp, done := w.handle(ctx, req)
		if err := enc.Encode(resp); err != nil {
			return err
		}
		if done {
			w.log.Infof("shutdown requested by client (id=%s)", req.ID)
			return nil
		}
	}
	return scanner.Err()
}

// handle maps one request to one response. done is true for shutdown.
func (w *Worker) handle(ctx context.Context, req protocol.Request) (resp protocol.Response, done bool) {
	switch req.Type {
	case protocol.TypeShutdown:
		return protocol.NewResult(idOrUnknown(req.ID), map[string]any{"status": "shutting_down"}), true
	case protocol.TypeInvoke:
		return w.invoke(ctx, req), false
	case protocol.TypeDescribe:
		return protocol.NewResult(idOrUnknown(req.ID), map[string]any{"tools": Catalog()}), false
	default:
		w.log.Warnf("unsupported message type %q received (id=%s)", req.Type, idOrUnknown(req.ID))
		return protocol.NewError(idOrUnknown(req.ID), "Unsupported message type."), false
	}
}

func (w *Worker) invoke(ctx context.Context, req protocol.Request) protocol.Response {
	tool, err := protocol.ParseTool(req.Tool)
	if err != nil {
		w.log.Warnf("rejecting invoke %s: %v", req.ID, err)
		return protocol.NewError(req.ID, err.Error())
	}

	w.log.Infof("executing tool '%s' for request %s with arguments %v", tool, req.ID, req.Arguments)
	args := req.Arguments
	if args == nil {
		args = map[string]string{}
	}

	switch tool {
	case protocol.ToolGetPrice:
		q, err := w.resolver.GetPrice(ctx, args["symbol"])
		if err != nil {
			w.log.Warnf("request %s failed: %v", req.ID, err)
			return protocol.NewError(req.ID, err.Error())
		}
		return protocol.NewResult(req.ID, map[string]any{"data": q.Payload()})
	case protocol.ToolCompare:
		cmp, err := w.resolver.Compare(ctx, args["symbol_a"], args["symbol_b"])
		if err != nil {
			w.log.Warnf("request %s failed: %v", req.ID, err)
			return protocol.NewError(req.ID, err.Error())
		}
		return protocol.NewResult(req.ID, map[string]any{"data": cmp.Payload()})
	}

	// ParseTool keeps this unreachable.
	return protocol.NewError(req.ID, (&protocol.UnknownToolError{Name: req.Tool}).Error())
}

func idOrUnknown(id string) string {
	if id == "" {
		return protocol.UnknownID
	}
	return id
}
