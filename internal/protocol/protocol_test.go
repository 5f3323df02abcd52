package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTool(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Tool
		wantErr string
	}{
		{name: "get_price", input: "get_price", want: ToolGetPrice},
		{name: "compare", input: "compare", want: ToolCompare},
		{name: "unknown tool", input: "get_weather", wantErr: "Unknown tool 'get_weather'."},
		{name: "empty name", input: "", wantErr: "Unknown tool ''."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool, err := ParseTool(tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, tool)
		})
	}
}

func TestRequestUnmarshal(t *testing.T) {
	line := `{"type": "invoke", "id": "abc-123", "tool": "get_price", "arguments": {"symbol": "AAPL"}}`

	var req Request
	require.NoError(t, json.Unmarshal([]byte(line), &req))
	assert.Equal(t, TypeInvoke, req.Type)
	assert.Equal(t, "abc-123", req.ID)
	assert.Equal(t, "get_price", req.Tool)
	assert.Equal(t, map[string]string{"symbol": "AAPL"}, req.Arguments)
}

func TestResponseMarshalOmitsAbsentFields(t *testing.T) {
	success, err := json.Marshal(NewResult("id-1", map[string]any{"data": "x"}))
	require.NoError(t, err)
	assert.NotContains(t, string(success), `"error"`)

	failure, err := json.Marshal(NewError("id-2", "boom"))
	require.NoError(t, err)
	assert.NotContains(t, string(failure), `"result"`)
}

func TestNewReady(t *testing.T) {
	payload, err := json.Marshal(NewReady())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"ready","version":"1.0"}`, string(payload))
}
