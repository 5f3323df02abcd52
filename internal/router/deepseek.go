package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/aidamian/mcp-workshop/internal/logging"
	"github.com/aidamian/mcp-workshop/internal/protocol"
)

const (
	deepseekAPIURL = "https://api.deepseek.com/chat/completions"
	// DefaultModel is the Deepseek model used when config does not name one.
	DefaultModel = "deepseek-chat"
)

const routingSystemPrompt = "You are a routing assistant for a stock data toolset. " +
	"Map the user's prompt to either 'get_price' or 'compare'. " +
	"Always return JSON with keys tool (string) and arguments (object). " +
	"For get_price provide symbol. For compare provide symbol_a and " +
	"symbol_b. Symbols must be uppercase tickers."

var _ Router = (*Deepseek)(nil)

// Deepseek asks the Deepseek chat API to classify the prompt. Any failure,
// including a missing API key, hands the prompt to the heuristic classifier
// instead of surfacing an error.
type Deepseek struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
	fallback   *Heuristic
	log        logging.Logger
}

// NewDeepseek builds the API-backed router.
func NewDeepseek(apiKey, model string, log logging.Logger) *Deepseek {
	if model == "" {
		model = DefaultModel
	}
	if log == nil {
		log = logging.NoOp()
	}
	return &Deepseek{
		apiKey:   apiKey,
		model:    model,
		endpoint: deepseekAPIURL,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
		fallback: NewHeuristic(log),
		log:      log,
	}
}

// Route classifies the prompt, reverting to heuristics when the API is
// unavailable or answers with something unusable.
func (d *Deepseek) Route(prompt string) (ToolCall, error) {
	cleaned := strings.TrimSpace(prompt)
	if cleaned == "" {
		return ToolCall{}, ErrEmptyQuery
	}

	if d.apiKey == "" {
		d.log.Debugf("no Deepseek key detected; using heuristic classifier")
		return d.fallback.Route(cleaned)
	}

	call, err := d.route(cleaned)
	if err != nil {
		d.log.Debugf("Deepseek routing failed (%v); reverting to heuristics", err)
		return d.fallback.Route(cleaned)
	}
	return call, nil
}

func (d *Deepseek) route(prompt string) (ToolCall, error) {
	reqBody := map[string]any{
		"model":           d.model,
		"response_format": map[string]string{"type": "json_object"},
		"messages": []map[string]string{
			{"role": "system", "content": routingSystemPrompt},
			{"role": "user", "content": prompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return ToolCall{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, d.endpoint, bytes.NewBuffer(bodyBytes))
	if err != nil {
		return ToolCall{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+d.apiKey)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return ToolCall{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return ToolCall{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return ToolCall{}, fmt.Errorf("Deepseek API error (%d): %s", resp.StatusCode, string(respBody))
	}

	content := gjson.GetBytes(respBody, "choices.0.message.content")
	if !content.Exists() {
		return ToolCall{}, fmt.Errorf("no choices returned from Deepseek")
	}

	parsed := gjson.Parse(content.String())
	tool, err := protocol.ParseTool(parsed.Get("tool").String())
	if err != nil {
		return ToolCall{}, fmt.Errorf("Deepseek response did not include a valid tool call: %w", err)
	}

	arguments := make(map[string]string)
	parsed.Get("arguments").ForEach(func(key, value gjson.Result) bool {
		arguments[key.String()] = value.String()
		return true
	})
	if len(arguments) == 0 {
		return ToolCall{}, fmt.Errorf("Deepseek response did not include tool arguments")
	}

	d.log.Debugf("Deepseek routed to %s with args %v", tool, arguments)
	return ToolCall{Tool: tool, Arguments: arguments}, nil
}
