package main

import (
	"fmt"

	"github.com/aidamian/mcp-workshop/internal/protocol"
	"github.com/aidamian/mcp-workshop/internal/router"
)

// renderResult turns a tool response payload into the line shown to the
// user.
func renderResult(call router.ToolCall, result map[string]any) string {
	data, _ := result["data"].(map[string]any)

	switch call.Tool {
	case protocol.ToolGetPrice:
		symbol := stringField(data, "symbol", "UNKNOWN")
		price := stringField(data, "price", "?")
		source := stringField(data, "source", "unknown")
		return fmt.Sprintf("The current price of %s is $%s (%s).", symbol, price, source)
	case protocol.ToolCompare:
		return stringField(data, "summary", "Comparison data unavailable.")
	}
	return "Received an unexpected tool response."
}

func stringField(data map[string]any, key, fallback string) string {
	if data == nil {
		return fallback
	}
	if value, ok := data[key].(string); ok && value != "" {
		return value
	}
	return fallback
}
