package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgorski/brief-analyzer/internal/analysis"
	"github.com/rgorski/brief-analyzer/internal/registry"
)

func TestNewGatewayPerProvider(t *testing.T) {
	gw, err := NewGateway(registry.ProviderOpenAI, "sk-test")
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, gw)

	gw, err = NewGateway(registry.ProviderAnthropic, "sk-ant-test")
	require.NoError(t, err)
	assert.IsType(t, &AnthropicClient{}, gw)

	gw, err = NewGateway(registry.ProviderGoogle, "g-test")
	require.NoError(t, err)
	assert.IsType(t, &GoogleClient{}, gw)
}

func TestNewGatewayUnknownProvider(t *testing.T) {
	_, err := NewGateway("mistral", "key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no gateway registered")
}

func TestNewGatewayEmptyCredential(t *testing.T) {
	_, err := NewGateway(registry.ProviderOpenAI, "")
	assert.Error(t, err)
}

func TestEveryCatalogProviderHasAGateway(t *testing.T) {
	for _, p := range registry.Default().Providers() {
		_, err := NewGateway(p.ID, "key")
		assert.NoError(t, err, "provider %q has no gateway", p.ID)
	}
}

// testAnalysis returns a schema-conforming analysis plus its JSON encoding,
// shared by the provider client tests.
func testAnalysis(t *testing.T) (*analysis.BriefAnalysis, string) {
	t.Helper()
	out := &analysis.BriefAnalysis{
		ProjectSummary: analysis.ProjectSummary{Title: "Todo App", Content: "A small todo tracker."},
		FunctionalRequirements: analysis.FunctionalRequirements{
			Items: []string{"Add todos", "Complete todos"},
		},
		MvpVsNiceToHave: analysis.MvpVsNiceToHave{Mvp: []string{"Add todos"}, NiceToHave: []string{"Sync"}},
		TechnicalStack: analysis.TechnicalStack{Categories: []analysis.TechStackCategory{
			{Name: "Backend", Items: []string{"Go", "PostgreSQL"}},
		}},
		RisksAndAssumptions: analysis.RisksAndAssumptions{
			Risks:       []analysis.Risk{{Level: analysis.RiskMedium, Description: "Vague scope"}},
			Assumptions: []string{"Web only"},
		},
		MissingInformation: analysis.MissingInformation{Questions: []string{"Auth needed?"}},
		RoughEstimation: analysis.RoughEstimation{
			Phases:        []analysis.EstimationPhase{{Name: "Build", Duration: "2 weeks", Effort: "60 hours"}},
			TotalDuration: "3 weeks",
			TotalEffort:   "80 hours",
			TeamSize:      "1 developer",
			Caveats:       []string{"No integrations assumed"},
		},
	}
	raw, err := json.Marshal(out)
	require.NoError(t, err)
	return out, string(raw)
}

func testRequest() analysis.GatewayRequest {
	return analysis.GatewayRequest{
		ModelID:      "test-model",
		SystemPrompt: "You are an analyst.",
		UserPrompt:   "Build a todo app",
		Schema:       analysis.OutputSchema(),
	}
}
