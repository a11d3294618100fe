// Package llm contains the provider gateways: one client per vendor, each
// invoking its chat API with the output schema enforced, and a factory that
// picks the client for a provider id. Adding a provider means adding one
// client file and one builders entry.
package llm

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rgorski/brief-analyzer/internal/analysis"
	"github.com/rgorski/brief-analyzer/internal/registry"
)

// CallTimeout bounds a single model call. Provider APIs can otherwise block
// for minutes on a slow generation.
const CallTimeout = 60 * time.Second

var builders = map[registry.ProviderID]func(apiKey string) analysis.Gateway{
	registry.ProviderOpenAI:    func(key string) analysis.Gateway { return NewOpenAIClient(key) },
	registry.ProviderAnthropic: func(key string) analysis.Gateway { return NewAnthropicClient(key) },
	registry.ProviderGoogle:    func(key string) analysis.Gateway { return NewGoogleClient(key) },
}

// NewGateway builds the gateway for a provider. It satisfies
// analysis.GatewayFactory.
func NewGateway(provider registry.ProviderID, credential string) (analysis.Gateway, error) {
	build, ok := builders[provider]
	if !ok {
		return nil, fmt.Errorf("no gateway registered for provider %q", provider)
	}
	if credential == "" {
		return nil, fmt.Errorf("empty credential for provider %q", provider)
	}
	return build(credential), nil
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: CallTimeout}
}
