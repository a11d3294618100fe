package analysis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMinimalAnalysis(t *testing.T) {
	assert.NoError(t, minimalAnalysis().Validate())
}

func TestValidateEmptySlicesAllowed(t *testing.T) {
	b := minimalAnalysis()
	b.FunctionalRequirements.Items = nil
	b.MvpVsNiceToHave = MvpVsNiceToHave{}
	b.TechnicalStack.Categories = nil
	b.RisksAndAssumptions = RisksAndAssumptions{}
	b.MissingInformation.Questions = nil
	b.RoughEstimation.Phases = nil
	b.RoughEstimation.Caveats = nil

	assert.NoError(t, b.Validate())
}

func TestValidateRejectsMissingTitle(t *testing.T) {
	b := minimalAnalysis()
	b.ProjectSummary.Title = ""

	err := b.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "projectSummary.title")
}

func TestValidateRejectsBadRiskLevel(t *testing.T) {
	b := minimalAnalysis()
	b.RisksAndAssumptions.Risks = []Risk{{Level: "CRITICAL", Description: "boom"}}

	err := b.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "risks[0].level")
}

func TestValidateRejectsEmptyEstimationSummary(t *testing.T) {
	b := minimalAnalysis()
	b.RoughEstimation.TotalDuration = ""

	assert.Error(t, b.Validate())
}

func TestDecodeOutputRoundTrip(t *testing.T) {
	raw, err := json.Marshal(minimalAnalysis())
	require.NoError(t, err)

	got, err := DecodeOutput(raw)
	require.NoError(t, err)
	assert.Equal(t, minimalAnalysis(), got)
}

func TestDecodeOutputRejectsMalformedJSON(t *testing.T) {
	_, err := DecodeOutput([]byte("not json"))
	assert.Error(t, err)
}

func TestDecodeOutputRejectsNonConforming(t *testing.T) {
	_, err := DecodeOutput([]byte(`{"projectSummary":{"title":"","content":""}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match schema")
}

func TestOutputSchemaIsValidJSON(t *testing.T) {
	var doc map[string]any
	require.NoError(t, json.Unmarshal(OutputSchema(), &doc))

	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	for _, section := range []string{
		"projectSummary", "functionalRequirements", "mvpVsNiceToHave",
		"technicalStack", "risksAndAssumptions", "missingInformation", "roughEstimation",
	} {
		assert.Contains(t, props, section)
	}
}
