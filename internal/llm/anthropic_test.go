package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnthropicTestClient(srv *httptest.Server) *AnthropicClient {
	c := NewAnthropicClient("sk-ant-test")
	c.BaseURL = srv.URL
	c.Client = srv.Client()
	return c
}

func TestAnthropicInvokeSuccess(t *testing.T) {
	want, rawJSON := testAnalysis(t)

	var gotReq anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "sk-ant-test", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		fmt.Fprintf(w, `{
			"content": [{"type": "tool_use", "name": %q, "input": %s}],
			"stop_reason": "tool_use",
			"usage": {"input_tokens": 950, "output_tokens": 1211}
		}`, anthropicToolName, rawJSON)
	}))
	defer srv.Close()

	res, err := newAnthropicTestClient(srv).Invoke(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, want, res.Analysis)
	assert.Equal(t, 950, res.Usage.InputTokens)
	assert.Equal(t, 1211, res.Usage.OutputTokens)

	// Tool use is forced onto the schema tool.
	require.Len(t, gotReq.Tools, 1)
	assert.Equal(t, anthropicToolName, gotReq.Tools[0].Name)
	assert.Equal(t, anthropicToolName, gotReq.ToolChoice["name"])
	assert.Equal(t, "tool", gotReq.ToolChoice["type"])
	assert.Equal(t, anthropicMaxTokens, gotReq.MaxTokens)
	assert.NotEmpty(t, gotReq.System)
}

func TestAnthropicInvokeNoToolUseBlock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"content":[{"type":"text"}],"stop_reason":"end_turn","usage":{}}`)
	}))
	defer srv.Close()

	_, err := newAnthropicTestClient(srv).Invoke(context.Background(), testRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no tool_use block")
	assert.Contains(t, err.Error(), "end_turn")
}

func TestAnthropicInvokeErrorStatusKeepsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(529)
		fmt.Fprint(w, `{"error":{"type":"overloaded_error","message":"Overloaded"}}`)
	}))
	defer srv.Close()

	_, err := newAnthropicTestClient(srv).Invoke(context.Background(), testRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 529")
	assert.Contains(t, err.Error(), "Overloaded")
}
