package registry

import "fmt"

// ProviderID identifies an LLM vendor.
type ProviderID string

const (
	ProviderOpenAI    ProviderID = "openai"
	ProviderAnthropic ProviderID = "anthropic"
	ProviderGoogle    ProviderID = "google"
)

// Pricing holds per-token prices in USD.
type Pricing struct {
	InputPerToken  float64 `json:"inputPerToken"`
	OutputPerToken float64 `json:"outputPerToken"`
}

// Model describes one catalog entry: a specific model offered by a provider,
// with its pricing and context window.
type Model struct {
	ID           string     `json:"id"`
	DisplayName  string     `json:"name"`
	Provider     ProviderID `json:"provider"`
	ContextSize  int        `json:"contextSize"`
	ContextLabel string     `json:"contextLabel"`
	Pricing      Pricing    `json:"pricing"`
}

// ProviderInfo is the presentation-level description of a provider.
type ProviderInfo struct {
	ID   ProviderID `json:"id"`
	Name string     `json:"name"`
}

// Registry is an immutable catalog of providers and models. It is constructed
// once at startup and safe for unlimited concurrent readers; nothing mutates
// it after New returns.
type Registry struct {
	providers []ProviderInfo
	byID      map[string]Model
	byProv    map[ProviderID][]string // model ids in catalog order
}

// New builds a registry from a provider list and a model catalog.
// Every model id must be unique across all providers so that lookups by
// model id alone are unambiguous.
func New(providers []ProviderInfo, models []Model) (*Registry, error) {
	r := &Registry{
		providers: providers,
		byID:      make(map[string]Model, len(models)),
		byProv:    make(map[ProviderID][]string),
	}

	known := make(map[ProviderID]bool, len(providers))
	for _, p := range providers {
		known[p.ID] = true
	}

	for _, m := range models {
		if !known[m.Provider] {
			return nil, fmt.Errorf("model %q references unknown provider %q", m.ID, m.Provider)
		}
		if _, dup := r.byID[m.ID]; dup {
			return nil, fmt.Errorf("duplicate model id %q", m.ID)
		}
		r.byID[m.ID] = m
		r.byProv[m.Provider] = append(r.byProv[m.Provider], m.ID)
	}

	return r, nil
}

// Resolve looks up a model by its id across all providers.
func (r *Registry) Resolve(modelID string) (Model, bool) {
	m, ok := r.byID[modelID]
	return m, ok
}

// Providers returns all providers in catalog order.
func (r *Registry) Providers() []ProviderInfo {
	out := make([]ProviderInfo, len(r.providers))
	copy(out, r.providers)
	return out
}

// ModelsByProvider returns the models of one provider in catalog order.
func (r *Registry) ModelsByProvider(provider ProviderID) []Model {
	ids := r.byProv[provider]
	out := make([]Model, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.byID[id])
	}
	return out
}

// Default returns the built-in catalog.
func Default() *Registry {
	r, err := New(defaultProviders, defaultModels)
	if err != nil {
		// The built-in catalog is a compile-time constant; a bad entry is a
		// programming error.
		panic(fmt.Sprintf("registry: invalid default catalog: %v", err))
	}
	return r
}

var defaultProviders = []ProviderInfo{
	{ID: ProviderOpenAI, Name: "OpenAI"},
	{ID: ProviderAnthropic, Name: "Anthropic"},
	{ID: ProviderGoogle, Name: "Google"},
}

var defaultModels = []Model{
	{
		ID:           "gpt-5-mini",
		DisplayName:  "GPT-5 Mini",
		Provider:     ProviderOpenAI,
		ContextSize:  400_000,
		ContextLabel: "400K tokens",
		Pricing:      Pricing{InputPerToken: 0.25 / 1_000_000, OutputPerToken: 2.0 / 1_000_000},
	},
	{
		ID:           "gpt-5-nano",
		DisplayName:  "GPT-5 Nano",
		Provider:     ProviderOpenAI,
		ContextSize:  400_000,
		ContextLabel: "400K tokens",
		Pricing:      Pricing{InputPerToken: 0.05 / 1_000_000, OutputPerToken: 0.4 / 1_000_000},
	},
	{
		ID:           "gpt-4.1-mini",
		DisplayName:  "GPT-4.1 Mini",
		Provider:     ProviderOpenAI,
		ContextSize:  1_047_576,
		ContextLabel: "1M tokens",
		Pricing:      Pricing{InputPerToken: 0.4 / 1_000_000, OutputPerToken: 1.6 / 1_000_000},
	},
	{
		ID:           "gpt-4.1-nano",
		DisplayName:  "GPT-4.1 Nano",
		Provider:     ProviderOpenAI,
		ContextSize:  1_047_576,
		ContextLabel: "1M tokens",
		Pricing:      Pricing{InputPerToken: 0.1 / 1_000_000, OutputPerToken: 0.4 / 1_000_000},
	},
	{
		ID:           "gpt-4o-mini",
		DisplayName:  "GPT-4o Mini",
		Provider:     ProviderOpenAI,
		ContextSize:  128_000,
		ContextLabel: "128K tokens",
		Pricing:      Pricing{InputPerToken: 0.15 / 1_000_000, OutputPerToken: 0.6 / 1_000_000},
	},
	{
		ID:           "claude-sonnet-4-6",
		DisplayName:  "Claude 4.6 Sonnet",
		Provider:     ProviderAnthropic,
		ContextSize:  200_000,
		ContextLabel: "200K tokens",
		Pricing:      Pricing{InputPerToken: 3.0 / 1_000_000, OutputPerToken: 15.0 / 1_000_000},
	},
	{
		ID:           "claude-haiku-4-5-20251001",
		DisplayName:  "Claude 4.5 Haiku",
		Provider:     ProviderAnthropic,
		ContextSize:  200_000,
		ContextLabel: "200K tokens",
		Pricing:      Pricing{InputPerToken: 1.0 / 1_000_000, OutputPerToken: 5.0 / 1_000_000},
	},
	{
		ID:           "gemini-2.5-flash",
		DisplayName:  "Gemini 2.5 Flash",
		Provider:     ProviderGoogle,
		ContextSize:  1_048_576,
		ContextLabel: "1M tokens",
		Pricing:      Pricing{InputPerToken: 0.3 / 1_000_000, OutputPerToken: 2.5 / 1_000_000},
	},
	{
		ID:           "gemini-2.5-flash-lite",
		DisplayName:  "Gemini 2.5 Flash Lite",
		Provider:     ProviderGoogle,
		ContextSize:  1_048_576,
		ContextLabel: "1M tokens",
		Pricing:      Pricing{InputPerToken: 0.1 / 1_000_000, OutputPerToken: 0.4 / 1_000_000},
	},
}
