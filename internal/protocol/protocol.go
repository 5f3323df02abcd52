// Package protocol defines the line-delimited JSON contract between the
// stock tool client and the worker process. Every message is a single JSON
// object on its own line.
package protocol

import (
	"fmt"

	"github.com/invopop/jsonschema"
)

// Version is the protocol revision announced in the readiness line.
const Version = "1.0"

// Message type constants.
const (
	TypeReady    = "ready"
	TypeInvoke   = "invoke"
	TypeShutdown = "shutdown"
	TypeDescribe = "describe"
	TypeResponse = "response"
)

// UnknownID is echoed in error responses for lines that could not be parsed
// far enough to recover a correlation id.
const UnknownID = "unknown"

// Tool is the closed set of operations the worker supports. Dispatch is an
// exhaustive switch on this type; unknown names are rejected at the protocol
// boundary by ParseTool.
type Tool string

const (
	ToolGetPrice Tool = "get_price"
	ToolCompare  Tool = "compare"
)

// UnknownToolError reports a tool name outside the supported set. Its
// message is sent verbatim to the client.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("Unknown tool '%s'.", e.Name)
}

// ParseTool validates a wire-level tool name against the supported set.
func ParseTool(name string) (Tool, error) {
	switch t := Tool(name); t {
	case ToolGetPrice, ToolCompare:
		return t, nil
	default:
		return "", &UnknownToolError{Name: name}
	}
}

// Ready is the first and only unsolicited message the worker writes.
type Ready struct {
	Type    string `json:"type"`
	Version string `json:"version"`
}

// NewReady builds the readiness signal for the current protocol version.
func NewReady() Ready {
	return Ready{Type: TypeReady, Version: Version}
}

// Request is a client-to-worker message. Tool and Arguments are only
// meaningful for invoke requests.
type Request struct {
	Type      string            `json:"type"`
	ID        string            `json:"id"`
	Tool      string            `json:"tool,omitempty"`
	Arguments map[string]string `json:"arguments,omitempty"`
}

// Response is the worker-to-client reply. Exactly one of Result and Error is
// populated.
type Response struct {
	Type   string         `json:"type"`
	ID     string         `json:"id"`
	Result map[string]any `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// NewResult wraps a successful payload, echoing the request id.
func NewResult(id string, result map[string]any) Response {
	return Response{Type: TypeResponse, ID: id, Result: result}
}

// NewError wraps a failure message, echoing the request id.
func NewError(id, message string) Response {
	return Response{Type: TypeResponse, ID: id, Error: message}
}

// ToolDefinition describes one tool in the worker's catalog. Parameters is a
// JSON Schema for the arguments object.
type ToolDefinition struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`
}
