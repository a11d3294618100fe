package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeUsageEmpty(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	sum := summarizeUsage(nil, now)

	assert.Equal(t, 0, sum.TotalAnalyses)
	assert.Zero(t, sum.TotalCost)
	assert.Zero(t, sum.AverageCost)
	assert.Empty(t, sum.MostUsedModel)
	assert.NotNil(t, sum.ModelUsage)
	assert.Empty(t, sum.ModelUsage)

	require.Len(t, sum.CostOverTime, 6)
	require.Len(t, sum.AnalysesOverTime, 6)
	assert.Equal(t, "Mar 2026", sum.CostOverTime[0].Month)
	assert.Equal(t, "Oct 2025", sum.CostOverTime[5].Month)
	for _, mc := range sum.CostOverTime {
		assert.Zero(t, mc.Cost)
	}
}

func TestSummarizeUsageTotals(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	day := func(d int) time.Time {
		return time.Date(2026, time.March, d, 9, 0, 0, 0, time.UTC)
	}

	rows := []usageRow{
		{CreatedAt: day(1), Cost: 1, Model: "gpt-4o-mini", ModelName: "GPT-4o Mini", Provider: "openai", TotalTokens: 300, Latency: 2},
		{CreatedAt: day(10), Cost: 2, Model: "gpt-4o-mini", ModelName: "GPT-4o Mini", Provider: "openai", TotalTokens: 600, Latency: 4},
		{CreatedAt: day(15), Cost: 3, Model: "gemini-2.5-flash", ModelName: "Gemini 2.5 Flash", Provider: "google", TotalTokens: 900, Latency: 6},
	}

	sum := summarizeUsage(rows, now)

	assert.Equal(t, 3, sum.TotalAnalyses)
	assert.InDelta(t, 6.0, sum.TotalCost, 1e-9)
	assert.InDelta(t, 2.0, sum.AverageCost, 1e-9)
	assert.InDelta(t, 6.0, sum.CostThisMonth, 1e-9)
	assert.Equal(t, 3, sum.AnalysesThisMonth)
	assert.Equal(t, 1, sum.AnalysesToday)
	assert.InDelta(t, 4.0, sum.AvgLatency, 1e-9)
	assert.InDelta(t, 600.0, sum.AvgTokensPerRequest, 1e-9)

	assert.Equal(t, "GPT-4o Mini", sum.MostUsedModel)
	assert.Equal(t, "openai", sum.MostUsedProvider)
}

func TestSummarizeUsageMonthWindows(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	rows := []usageRow{
		{CreatedAt: time.Date(2026, time.February, 28, 23, 59, 0, 0, time.UTC), Cost: 5, Model: "m", Provider: "openai"},
		{CreatedAt: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), Cost: 1, Model: "m", Provider: "openai"},
		{CreatedAt: time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC), Cost: 2, Model: "m", Provider: "openai"},
	}

	sum := summarizeUsage(rows, now)

	assert.Equal(t, 3, sum.TotalAnalyses)
	assert.Equal(t, 2, sum.AnalysesThisMonth)
	assert.InDelta(t, 3.0, sum.CostThisMonth, 1e-9)
	assert.Equal(t, 1, sum.AnalysesToday)
}

func TestSummarizeUsageTrailingSeries(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	rows := []usageRow{
		{CreatedAt: time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC), Cost: 100, Model: "m", Provider: "openai"}, // outside the window
		{CreatedAt: time.Date(2025, time.November, 5, 0, 0, 0, 0, time.UTC), Cost: 4, Model: "m", Provider: "openai"},
		{CreatedAt: time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC), Cost: 1, Model: "m", Provider: "openai"},
		{CreatedAt: time.Date(2026, time.January, 25, 0, 0, 0, 0, time.UTC), Cost: 2, Model: "m", Provider: "openai"},
	}

	sum := summarizeUsage(rows, now)

	require.Len(t, sum.CostOverTime, 6)

	byMonth := map[string]float64{}
	for _, mc := range sum.CostOverTime {
		byMonth[mc.Month] = mc.Cost
	}
	assert.InDelta(t, 0.0, byMonth["Mar 2026"], 1e-9)
	assert.InDelta(t, 3.0, byMonth["Jan 2026"], 1e-9)
	assert.InDelta(t, 4.0, byMonth["Nov 2025"], 1e-9)
	assert.NotContains(t, byMonth, "Sep 2025")

	counts := map[string]int{}
	for _, mc := range sum.AnalysesOverTime {
		counts[mc.Month] = mc.Count
	}
	assert.Equal(t, 2, counts["Jan 2026"])
	assert.Equal(t, 0, counts["Feb 2026"])
}

func TestSummarizeUsageModelRanking(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	at := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

	rows := []usageRow{
		{CreatedAt: at, Model: "a", ModelName: "Model A", Provider: "openai"},
		{CreatedAt: at, Model: "b", ModelName: "Model B", Provider: "anthropic"},
		{CreatedAt: at, Model: "b", ModelName: "Model B", Provider: "anthropic"},
		{CreatedAt: at, Model: "c", ModelName: "Model C", Provider: "google"},
	}

	sum := summarizeUsage(rows, now)

	require.Len(t, sum.ModelUsage, 3)
	assert.Equal(t, "Model B", sum.ModelUsage[0].Model)
	assert.InDelta(t, 50.0, sum.ModelUsage[0].Percentage, 1e-9)
	// Count ties keep first-seen order.
	assert.Equal(t, "Model A", sum.ModelUsage[1].Model)
	assert.Equal(t, "Model C", sum.ModelUsage[2].Model)
	assert.InDelta(t, 25.0, sum.ModelUsage[1].Percentage, 1e-9)

	assert.Equal(t, "Model B", sum.MostUsedModel)
	assert.Equal(t, "anthropic", sum.MostUsedProvider)
}

func TestSummarizeUsageFallsBackToModelID(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	rows := []usageRow{
		{CreatedAt: now, Model: "legacy-model", Provider: "openai"},
	}

	sum := summarizeUsage(rows, now)

	assert.Equal(t, "legacy-model", sum.MostUsedModel)
}
