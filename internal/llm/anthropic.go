package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rgorski/brief-analyzer/internal/analysis"
)

const (
	anthropicBaseURL = "https://api.anthropic.com/v1"
	anthropicVersion = "2023-06-01"

	// The schema is enforced by forcing this tool; the analysis arrives as
	// the tool input rather than as message text.
	anthropicToolName = "record_brief_analysis"

	anthropicMaxTokens = 8192
)

// AnthropicClient invokes the Anthropic messages API using forced tool use
// to obtain schema-conforming output.
type AnthropicClient struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

func NewAnthropicClient(apiKey string) *AnthropicClient {
	return &AnthropicClient{
		APIKey:  apiKey,
		BaseURL: anthropicBaseURL,
		Client:  newHTTPClient(),
	}
}

type anthropicRequest struct {
	Model      string             `json:"model"`
	MaxTokens  int                `json:"max_tokens"`
	System     string             `json:"system"`
	Messages   []anthropicMessage `json:"messages"`
	Tools      []anthropicTool    `json:"tools"`
	ToolChoice map[string]string  `json:"tool_choice"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicTool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

type anthropicResponse struct {
	Content []struct {
		Type  string          `json:"type"`
		Name  string          `json:"name"`
		Input json.RawMessage `json:"input"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (c *AnthropicClient) Invoke(ctx context.Context, req analysis.GatewayRequest) (*analysis.GatewayResult, error) {
	body := anthropicRequest{
		Model:     req.ModelID,
		MaxTokens: anthropicMaxTokens,
		System:    req.SystemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: req.UserPrompt},
		},
		Tools: []anthropicTool{{
			Name:        anthropicToolName,
			Description: "Record the structured breakdown of a project brief.",
			InputSchema: req.Schema,
		}},
		ToolChoice: map[string]string{"type": "tool", "name": anthropicToolName},
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/messages", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("x-api-key", c.APIKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call Anthropic API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var apiResp anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	for _, block := range apiResp.Content {
		if block.Type != "tool_use" || block.Name != anthropicToolName {
			continue
		}
		out, err := analysis.DecodeOutput(block.Input)
		if err != nil {
			return nil, err
		}
		return &analysis.GatewayResult{
			Analysis: out,
			Usage: analysis.Usage{
				InputTokens:  apiResp.Usage.InputTokens,
				OutputTokens: apiResp.Usage.OutputTokens,
			},
		}, nil
	}

	return nil, fmt.Errorf("no tool_use block in Anthropic response (stop_reason %q)", apiResp.StopReason)
}
