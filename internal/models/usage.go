package models

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UsageSummary is the derived analytics view over a caller's analyses.
// Everything here comes from the flat metric columns; no structured output
// is hydrated to compute it.
type UsageSummary struct {
	TotalAnalyses     int     `json:"totalAnalyses"`
	AnalysesThisMonth int     `json:"analysesThisMonth"`
	AnalysesToday     int     `json:"analysesToday"`
	TotalCost         float64 `json:"totalCost"`
	CostThisMonth     float64 `json:"costThisMonth"`
	AverageCost       float64 `json:"averageCost"`

	MostUsedModel    string `json:"mostUsedModel"`
	MostUsedProvider string `json:"mostUsedProvider"`

	ModelUsage []ModelUsage `json:"modelUsage"`

	CostOverTime     []MonthCost  `json:"costOverTime"`
	AnalysesOverTime []MonthCount `json:"analysesOverTime"`

	AvgLatency          float64 `json:"avgLatency"`
	AvgTokensPerRequest float64 `json:"avgTokensPerRequest"`
}

// ModelUsage is one entry of the model frequency ranking.
type ModelUsage struct {
	Model      string  `json:"model"`
	Percentage float64 `json:"percentage"`
}

type MonthCost struct {
	Month string  `json:"month"`
	Cost  float64 `json:"cost"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// usageRow is the flat per-analysis slice of columns the aggregator scans.
type usageRow struct {
	CreatedAt   time.Time
	Cost        float64
	Model       string
	ModelName   string
	Provider    string
	TotalTokens int
	Latency     float64
}

// UsageService derives analytics from persisted analyses. Read-only; it
// never mutates stored records.
type UsageService struct {
	pool *pgxpool.Pool
}

func NewUsageService(pool *pgxpool.Pool) *UsageService {
	return &UsageService{pool: pool}
}

// Summary computes the caller's usage analytics as of now.
func (s *UsageService) Summary(ctx context.Context, callerID string) (*UsageSummary, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	q, err := s.pool.Query(ctx, `
		SELECT created_at, estimated_cost, model, model_name, provider, total_tokens, latency
		FROM analyses
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to scan usage rows: %w", err)
	}
	defer q.Close()

	var rows []usageRow
	for q.Next() {
		var r usageRow
		if err := q.Scan(&r.CreatedAt, &r.Cost, &r.Model, &r.ModelName, &r.Provider, &r.TotalTokens, &r.Latency); err != nil {
			return nil, fmt.Errorf("failed to scan usage row: %w", err)
		}
		rows = append(rows, r)
	}
	if err := q.Err(); err != nil {
		return nil, fmt.Errorf("error iterating usage rows: %w", err)
	}

	return summarizeUsage(rows, time.Now()), nil
}

// monthLabel keys the trailing series by calendar month.
func monthLabel(t time.Time) string {
	return t.Format("Jan 2006")
}

// trailingMonths is how far back the cost/count series reaches.
const trailingMonths = 6

// summarizeUsage aggregates the scanned rows as of the given instant.
// Rows are expected oldest-first; the model ranking breaks count ties by
// first-encountered order.
func summarizeUsage(rows []usageRow, now time.Time) *UsageSummary {
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	sum := &UsageSummary{
		TotalAnalyses: len(rows),
		ModelUsage:    []ModelUsage{},
	}

	var totalLatency float64
	var totalTokens int

	costByMonth := make(map[string]float64)
	countByMonth := make(map[string]int)

	type modelStat struct {
		count       int
		provider    string
		displayName string
	}
	stats := make(map[string]*modelStat)
	var modelOrder []string

	for _, r := range rows {
		sum.TotalCost += r.Cost
		totalLatency += r.Latency
		totalTokens += r.TotalTokens

		if !r.CreatedAt.Before(startOfMonth) {
			sum.AnalysesThisMonth++
			sum.CostThisMonth += r.Cost
		}
		if !r.CreatedAt.Before(startOfToday) {
			sum.AnalysesToday++
		}

		label := monthLabel(r.CreatedAt)
		costByMonth[label] += r.Cost
		countByMonth[label]++

		st, ok := stats[r.Model]
		if !ok {
			name := r.ModelName
			if name == "" {
				name = r.Model
			}
			st = &modelStat{provider: r.Provider, displayName: name}
			stats[r.Model] = st
			modelOrder = append(modelOrder, r.Model)
		}
		st.count++
	}

	if len(rows) > 0 {
		n := float64(len(rows))
		sum.AverageCost = sum.TotalCost / n
		sum.AvgLatency = totalLatency / n
		sum.AvgTokensPerRequest = float64(totalTokens) / n
	}

	// Rank models by frequency; the stable sort keeps first-seen order on ties.
	sort.SliceStable(modelOrder, func(i, j int) bool {
		return stats[modelOrder[i]].count > stats[modelOrder[j]].count
	})
	if len(modelOrder) > 0 {
		top := stats[modelOrder[0]]
		sum.MostUsedModel = top.displayName
		sum.MostUsedProvider = top.provider
	}
	for _, model := range modelOrder {
		st := stats[model]
		pct := 0.0
		if len(rows) > 0 {
			pct = float64(st.count) / float64(len(rows)) * 100
		}
		sum.ModelUsage = append(sum.ModelUsage, ModelUsage{Model: st.displayName, Percentage: pct})
	}

	// Fixed trailing series, most recent month first, missing months zeroed.
	sum.CostOverTime = make([]MonthCost, 0, trailingMonths)
	sum.AnalysesOverTime = make([]MonthCount, 0, trailingMonths)
	for i := 0; i < trailingMonths; i++ {
		label := monthLabel(time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, now.Location()))
		sum.CostOverTime = append(sum.CostOverTime, MonthCost{Month: label, Cost: costByMonth[label]})
		sum.AnalysesOverTime = append(sum.AnalysesOverTime, MonthCount{Month: label, Count: countByMonth[label]})
	}

	return sum
}
