package models

import (
	"sort"
	"strings"

	"github.com/rgorski/brief-analyzer/internal/analysis"
)

// Row types mirroring the child tables of an analysis. Flattening and
// reassembly are kept free of SQL so the ordering round-trip is testable on
// its own; sort_order always equals the zero-based position in the original
// slice.

type itemRow struct {
	Content   string
	SortOrder int
}

type riskRow struct {
	Level       string // stored upper-cased
	Description string
	SortOrder   int
}

type phaseRow struct {
	Name      string
	Duration  string
	Effort    string
	SortOrder int
}

type categoryRow struct {
	Name      string
	SortOrder int
	Items     []itemRow
}

type analysisRows struct {
	SummaryContent string

	Requirements []itemRow
	MvpItems     []itemRow
	NiceToHave   []itemRow
	Categories   []categoryRow
	Risks        []riskRow
	Assumptions  []itemRow
	Questions    []itemRow

	TotalDuration string
	TotalEffort   string
	TeamSize      string
	Phases        []phaseRow
	Caveats       []itemRow
}

func itemRows(values []string) []itemRow {
	rows := make([]itemRow, len(values))
	for i, v := range values {
		rows[i] = itemRow{Content: v, SortOrder: i}
	}
	return rows
}

// flattenAnalysis decomposes a structured analysis into child rows. Risk
// levels are upper-cased for storage; they come back lower-cased on read.
func flattenAnalysis(b *analysis.BriefAnalysis) analysisRows {
	rows := analysisRows{
		SummaryContent: b.ProjectSummary.Content,
		Requirements:   itemRows(b.FunctionalRequirements.Items),
		MvpItems:       itemRows(b.MvpVsNiceToHave.Mvp),
		NiceToHave:     itemRows(b.MvpVsNiceToHave.NiceToHave),
		Assumptions:    itemRows(b.RisksAndAssumptions.Assumptions),
		Questions:      itemRows(b.MissingInformation.Questions),
		TotalDuration:  b.RoughEstimation.TotalDuration,
		TotalEffort:    b.RoughEstimation.TotalEffort,
		TeamSize:       b.RoughEstimation.TeamSize,
		Caveats:        itemRows(b.RoughEstimation.Caveats),
	}

	for i, cat := range b.TechnicalStack.Categories {
		rows.Categories = append(rows.Categories, categoryRow{
			Name:      cat.Name,
			SortOrder: i,
			Items:     itemRows(cat.Items),
		})
	}
	for i, r := range b.RisksAndAssumptions.Risks {
		rows.Risks = append(rows.Risks, riskRow{
			Level:       strings.ToUpper(r.Level),
			Description: r.Description,
			SortOrder:   i,
		})
	}
	for i, p := range b.RoughEstimation.Phases {
		rows.Phases = append(rows.Phases, phaseRow{
			Name:      p.Name,
			Duration:  p.Duration,
			Effort:    p.Effort,
			SortOrder: i,
		})
	}

	return rows
}

func sortItems(rows []itemRow) {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].SortOrder < rows[j].SortOrder })
}

func itemValues(rows []itemRow) []string {
	sortItems(rows)
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Content
	}
	return out
}

// assembleAnalysis rebuilds the nested structure from child rows. This is
// the sole place insertion order is restored: every collection is sorted by
// its stored sort_order before the slices are rebuilt.
func assembleAnalysis(title string, rows analysisRows) *analysis.BriefAnalysis {
	sort.SliceStable(rows.Categories, func(i, j int) bool {
		return rows.Categories[i].SortOrder < rows.Categories[j].SortOrder
	})
	sort.SliceStable(rows.Risks, func(i, j int) bool {
		return rows.Risks[i].SortOrder < rows.Risks[j].SortOrder
	})
	sort.SliceStable(rows.Phases, func(i, j int) bool {
		return rows.Phases[i].SortOrder < rows.Phases[j].SortOrder
	})

	b := &analysis.BriefAnalysis{
		ProjectSummary: analysis.ProjectSummary{
			Title:   title,
			Content: rows.SummaryContent,
		},
		FunctionalRequirements: analysis.FunctionalRequirements{
			Items: itemValues(rows.Requirements),
		},
		MvpVsNiceToHave: analysis.MvpVsNiceToHave{
			Mvp:        itemValues(rows.MvpItems),
			NiceToHave: itemValues(rows.NiceToHave),
		},
		MissingInformation: analysis.MissingInformation{
			Questions: itemValues(rows.Questions),
		},
		RoughEstimation: analysis.RoughEstimation{
			TotalDuration: rows.TotalDuration,
			TotalEffort:   rows.TotalEffort,
			TeamSize:      rows.TeamSize,
			Caveats:       itemValues(rows.Caveats),
		},
	}

	b.TechnicalStack.Categories = make([]analysis.TechStackCategory, 0, len(rows.Categories))
	for _, cat := range rows.Categories {
		b.TechnicalStack.Categories = append(b.TechnicalStack.Categories, analysis.TechStackCategory{
			Name:  cat.Name,
			Items: itemValues(cat.Items),
		})
	}

	b.RisksAndAssumptions.Risks = make([]analysis.Risk, 0, len(rows.Risks))
	for _, r := range rows.Risks {
		b.RisksAndAssumptions.Risks = append(b.RisksAndAssumptions.Risks, analysis.Risk{
			Level:       strings.ToLower(r.Level),
			Description: r.Description,
		})
	}
	b.RisksAndAssumptions.Assumptions = itemValues(rows.Assumptions)

	b.RoughEstimation.Phases = make([]analysis.EstimationPhase, 0, len(rows.Phases))
	for _, p := range rows.Phases {
		b.RoughEstimation.Phases = append(b.RoughEstimation.Phases, analysis.EstimationPhase{
			Name:     p.Name,
			Duration: p.Duration,
			Effort:   p.Effort,
		})
	}

	return b
}
