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

const googleBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GoogleClient invokes the Gemini generateContent API with a response schema
// for constrained JSON decoding.
type GoogleClient struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

func NewGoogleClient(apiKey string) *GoogleClient {
	return &GoogleClient{
		APIKey:  apiKey,
		BaseURL: googleBaseURL,
		Client:  newHTTPClient(),
	}
}

type googleRequest struct {
	SystemInstruction googleContent   `json:"system_instruction"`
	Contents          []googleContent `json:"contents"`
	GenerationConfig  struct {
		ResponseMimeType string          `json:"responseMimeType"`
		ResponseSchema   json.RawMessage `json:"responseSchema"`
	} `json:"generationConfig"`
}

type googleContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []googlePart `json:"parts"`
}

type googlePart struct {
	Text string `json:"text"`
}

type googleResponse struct {
	Candidates []struct {
		Content      googleContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
}

func (c *GoogleClient) Invoke(ctx context.Context, req analysis.GatewayRequest) (*analysis.GatewayResult, error) {
	schema, err := sanitizeGoogleSchema(req.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare response schema: %w", err)
	}

	body := googleRequest{
		SystemInstruction: googleContent{Parts: []googlePart{{Text: req.SystemPrompt}}},
		Contents: []googleContent{
			{Role: "user", Parts: []googlePart{{Text: req.UserPrompt}}},
		},
	}
	body.GenerationConfig.ResponseMimeType = "application/json"
	body.GenerationConfig.ResponseSchema = schema

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.BaseURL, req.ModelID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("x-goog-api-key", c.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call Gemini API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var apiResp googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(apiResp.Candidates) == 0 || len(apiResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no candidates in Gemini response")
	}
	text := apiResp.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return nil, fmt.Errorf("empty candidate content (finishReason %q)", apiResp.Candidates[0].FinishReason)
	}

	out, err := analysis.DecodeOutput([]byte(text))
	if err != nil {
		return nil, err
	}

	return &analysis.GatewayResult{
		Analysis: out,
		Usage: analysis.Usage{
			InputTokens:  apiResp.UsageMetadata.PromptTokenCount,
			OutputTokens: apiResp.UsageMetadata.CandidatesTokenCount,
		},
	}, nil
}

// sanitizeGoogleSchema strips JSON Schema keywords the Gemini responseSchema
// dialect rejects (additionalProperties and $-prefixed metadata).
func sanitizeGoogleSchema(schema json.RawMessage) (json.RawMessage, error) {
	var doc any
	if err := json.Unmarshal(schema, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(stripUnsupported(doc))
}

func stripUnsupported(node any) any {
	switch v := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			if key == "additionalProperties" || len(key) > 0 && key[0] == '$' {
				continue
			}
			out[key] = stripUnsupported(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = stripUnsupported(val)
		}
		return out
	default:
		return node
	}
}
