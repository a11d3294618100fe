package analysis

import (
	"context"
	"errors"
	"time"

	"github.com/rgorski/brief-analyzer/internal/registry"
)

// mockGateway returns a canned result and records whether it was called.
type mockGateway struct {
	result *GatewayResult
	err    error
	delay  time.Duration
	calls  int
	lastReq GatewayRequest
}

func (m *mockGateway) Invoke(_ context.Context, req GatewayRequest) (*GatewayResult, error) {
	m.calls++
	m.lastReq = req
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func factoryFor(gw Gateway) GatewayFactory {
	return func(registry.ProviderID, string) (Gateway, error) {
		return gw, nil
	}
}

func failingFactory(err error) GatewayFactory {
	return func(registry.ProviderID, string) (Gateway, error) {
		return nil, err
	}
}

// mockCreds holds keys for a fixed set of providers.
type mockCreds map[registry.ProviderID]string

func (m mockCreds) Credential(p registry.ProviderID) (string, bool) {
	k, ok := m[p]
	return k, ok
}

var allCreds = mockCreds{
	registry.ProviderOpenAI:    "sk-test",
	registry.ProviderAnthropic: "sk-ant-test",
	registry.ProviderGoogle:    "g-test",
}

// mockStore captures the saved record.
type mockStore struct {
	id    string
	err   error
	saved *Record
}

func (m *mockStore) Save(_ context.Context, rec *Record) (string, error) {
	m.saved = rec
	if m.err != nil {
		return "", m.err
	}
	if m.id == "" {
		return "rec-1", nil
	}
	return m.id, nil
}

var errStoreDown = errors.New("connection refused")

func minimalAnalysis() *BriefAnalysis {
	return &BriefAnalysis{
		ProjectSummary: ProjectSummary{
			Title:   "Todo App",
			Content: "A minimal todo application.",
		},
		FunctionalRequirements: FunctionalRequirements{Items: []string{"Users can add todos"}},
		MvpVsNiceToHave:        MvpVsNiceToHave{Mvp: []string{"Add todos"}, NiceToHave: []string{"Dark mode"}},
		TechnicalStack: TechnicalStack{Categories: []TechStackCategory{
			{Name: "Backend", Items: []string{"Go"}},
		}},
		RisksAndAssumptions: RisksAndAssumptions{
			Risks:       []Risk{{Level: RiskLow, Description: "Scope creep"}},
			Assumptions: []string{"Single-user for v1"},
		},
		MissingInformation: MissingInformation{Questions: []string{"Mobile support needed?"}},
		RoughEstimation: RoughEstimation{
			Phases:        []EstimationPhase{{Name: "Build", Duration: "2 weeks", Effort: "60 hours"}},
			TotalDuration: "2 weeks",
			TotalEffort:   "60 hours",
			TeamSize:      "1 developer",
			Caveats:       []string{"Estimate assumes no integrations"},
		},
	}
}
