package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveKnownModel(t *testing.T) {
	r := Default()

	m, ok := r.Resolve("gpt-4o-mini")
	require.True(t, ok)
	assert.Equal(t, "GPT-4o Mini", m.DisplayName)
	assert.Equal(t, ProviderOpenAI, m.Provider)
	assert.Equal(t, 128_000, m.ContextSize)
	assert.InDelta(t, 0.15/1_000_000, m.Pricing.InputPerToken, 1e-12)
	assert.InDelta(t, 0.6/1_000_000, m.Pricing.OutputPerToken, 1e-12)
}

func TestResolveUnknownModel(t *testing.T) {
	r := Default()

	_, ok := r.Resolve("gpt-2")
	assert.False(t, ok)
}

func TestModelIDsUnambiguousAcrossProviders(t *testing.T) {
	r := Default()

	seen := make(map[string]ProviderID)
	for _, p := range r.Providers() {
		for _, m := range r.ModelsByProvider(p.ID) {
			prev, dup := seen[m.ID]
			require.False(t, dup, "model %q listed under both %q and %q", m.ID, prev, p.ID)
			seen[m.ID] = p.ID
			assert.Equal(t, p.ID, m.Provider)
		}
	}
	assert.NotEmpty(t, seen)
}

func TestNewRejectsDuplicateModelID(t *testing.T) {
	providers := []ProviderInfo{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}
	models := []Model{
		{ID: "m1", Provider: "a"},
		{ID: "m1", Provider: "b"},
	}

	_, err := New(providers, models)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate model id")
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	_, err := New(
		[]ProviderInfo{{ID: "a", Name: "A"}},
		[]Model{{ID: "m1", Provider: "nope"}},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestProvidersOrder(t *testing.T) {
	r := Default()

	ps := r.Providers()
	require.Len(t, ps, 3)
	assert.Equal(t, ProviderOpenAI, ps[0].ID)
	assert.Equal(t, ProviderAnthropic, ps[1].ID)
	assert.Equal(t, ProviderGoogle, ps[2].ID)
}

func TestModelsByProviderKeepsCatalogOrder(t *testing.T) {
	r := Default()

	openai := r.ModelsByProvider(ProviderOpenAI)
	require.Len(t, openai, 5)
	assert.Equal(t, "gpt-5-mini", openai[0].ID)
	assert.Equal(t, "gpt-4o-mini", openai[4].ID)

	assert.Empty(t, r.ModelsByProvider("unknown"))
}
