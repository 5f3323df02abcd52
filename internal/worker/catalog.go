package worker

import (
	"github.com/invopop/jsonschema"

	"github.com/aidamian/mcp-workshop/internal/protocol"
)

type getPriceArgs struct {
	Symbol string `json:"symbol" jsonschema:"required" jsonschema_description:"Stock ticker symbol, for example AAPL."`
}

type compareArgs struct {
	SymbolA string `json:"symbol_a" jsonschema:"required" jsonschema_description:"First ticker symbol."`
	SymbolB string `json:"symbol_b" jsonschema:"required" jsonschema_description:"Second ticker symbol."`
}

// Catalog lists the tools this worker serves, with JSON Schemas for their
// argument objects. Returned to describe requests.
func Catalog() []protocol.ToolDefinition {
	return []protocol.ToolDefinition{
		{
			Name:        string(protocol.ToolGetPrice),
			Description: "Fetch the current price for one stock symbol.",
			Parameters:  generateSchema[getPriceArgs](),
		},
		{
			Name:        string(protocol.ToolCompare),
			Description: "Compare the prices of two stock symbols and summarise the difference.",
			Parameters:  generateSchema[compareArgs](),
		},
	}
}

func generateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		DoNotReference:             true, // keep the schema self-contained, no $refs
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	return reflector.Reflect(&v)
}
