// Package router maps natural-language prompts to stock tool calls. The
// Deepseek-backed router degrades to a deterministic keyword classifier so
// the session stays usable offline.
package router

import (
	"errors"

	"github.com/aidamian/mcp-workshop/internal/protocol"
)

// ToolCall is the routed outcome: which tool to invoke and with what.
type ToolCall struct {
	Tool      protocol.Tool
	Arguments map[string]string
}

// Router turns a user prompt into a tool call or fails with a
// classification error.
type Router interface {
	Route(prompt string) (ToolCall, error)
}

// ErrEmptyQuery rejects blank prompts before any classification runs.
var ErrEmptyQuery = errors.New("query cannot be empty")
