package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/xid"

	"github.com/rgorski/brief-analyzer/internal/analysis"
)

// AnalysisDetail is one stored analysis rebuilt into its nested shape plus
// the flat request metadata.
type AnalysisDetail struct {
	ID            string                  `json:"id"`
	Title         string                  `json:"title"`
	Brief         string                  `json:"brief"`
	Model         string                  `json:"model"`
	ModelName     string                  `json:"modelName"`
	Provider      string                  `json:"provider"`
	InputTokens   int                     `json:"inputTokens"`
	OutputTokens  int                     `json:"outputTokens"`
	TotalTokens   int                     `json:"totalTokens"`
	EstimatedCost float64                 `json:"cost"`
	Latency       float64                 `json:"latency"`
	CreatedAt     time.Time               `json:"date"`
	Analysis      *analysis.BriefAnalysis `json:"analysis"`
}

// AnalysisSummary is the denormalized flat view used for history listings.
// No child collections are hydrated; listing stays cheap.
type AnalysisSummary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Model         string    `json:"model"`
	ModelName     string    `json:"modelName"`
	Provider      string    `json:"provider"`
	EstimatedCost float64   `json:"cost"`
	InputTokens   int       `json:"inputTokens"`
	OutputTokens  int       `json:"outputTokens"`
	CreatedAt     time.Time `json:"date"`
}

// AnalysisService persists analyses: it flattens the nested structured
// output into normalized child rows on write and restores it on read.
type AnalysisService struct {
	pool *pgxpool.Pool
}

func NewAnalysisService(pool *pgxpool.Pool) *AnalysisService {
	return &AnalysisService{pool: pool}
}

// Save writes the parent row and every child row as one transaction.
// A failure anywhere rolls the whole record back; partial analyses are never
// visible. Returns the new record id. Implements analysis.Store.
func (s *AnalysisService) Save(ctx context.Context, rec *analysis.Record) (string, error) {
	if rec.Analysis == nil {
		return "", fmt.Errorf("save analysis: nil structured output")
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	id := xid.New().String()

	_, err = tx.Exec(ctx, `
		INSERT INTO analyses (id, user_id, brief, title, model, model_name, provider,
		                      input_tokens, output_tokens, total_tokens, estimated_cost, latency)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, id, rec.CallerID, rec.Brief, rec.Title, rec.ModelID, rec.ModelName, rec.Provider,
		rec.InputTokens, rec.OutputTokens, rec.TotalTokens, rec.EstimatedCost, rec.LatencySeconds)
	if err != nil {
		return "", fmt.Errorf("failed to insert analysis: %w", err)
	}

	rows := flattenAnalysis(rec.Analysis)

	if err := insertChildren(ctx, tx, id, rows); err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to commit analysis: %w", err)
	}

	return id, nil
}

func insertChildren(ctx context.Context, tx pgx.Tx, analysisID string, rows analysisRows) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO project_summaries (analysis_id, content) VALUES ($1, $2)
	`, analysisID, rows.SummaryContent)
	if err != nil {
		return fmt.Errorf("failed to insert project summary: %w", err)
	}

	if err := insertItems(ctx, tx, "functional_requirements", analysisID, rows.Requirements); err != nil {
		return err
	}
	if err := insertItems(ctx, tx, "mvp_items", analysisID, rows.MvpItems); err != nil {
		return err
	}
	if err := insertItems(ctx, tx, "nice_to_have_items", analysisID, rows.NiceToHave); err != nil {
		return err
	}

	for _, cat := range rows.Categories {
		var categoryID int64
		err := tx.QueryRow(ctx, `
			INSERT INTO tech_stack_categories (analysis_id, name, sort_order)
			VALUES ($1, $2, $3)
			RETURNING id
		`, analysisID, cat.Name, cat.SortOrder).Scan(&categoryID)
		if err != nil {
			return fmt.Errorf("failed to insert tech stack category: %w", err)
		}
		for _, item := range cat.Items {
			_, err := tx.Exec(ctx, `
				INSERT INTO tech_stack_items (category_id, name, sort_order)
				VALUES ($1, $2, $3)
			`, categoryID, item.Content, item.SortOrder)
			if err != nil {
				return fmt.Errorf("failed to insert tech stack item: %w", err)
			}
		}
	}

	for _, r := range rows.Risks {
		_, err := tx.Exec(ctx, `
			INSERT INTO risks (analysis_id, level, description, sort_order)
			VALUES ($1, $2, $3, $4)
		`, analysisID, r.Level, r.Description, r.SortOrder)
		if err != nil {
			return fmt.Errorf("failed to insert risk: %w", err)
		}
	}

	if err := insertItems(ctx, tx, "assumptions", analysisID, rows.Assumptions); err != nil {
		return err
	}
	if err := insertItems(ctx, tx, "missing_questions", analysisID, rows.Questions); err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO estimation_summaries (analysis_id, total_duration, total_effort, team_size)
		VALUES ($1, $2, $3, $4)
	`, analysisID, rows.TotalDuration, rows.TotalEffort, rows.TeamSize)
	if err != nil {
		return fmt.Errorf("failed to insert estimation summary: %w", err)
	}

	for _, p := range rows.Phases {
		_, err := tx.Exec(ctx, `
			INSERT INTO estimation_phases (analysis_id, name, duration, effort, sort_order)
			VALUES ($1, $2, $3, $4, $5)
		`, analysisID, p.Name, p.Duration, p.Effort, p.SortOrder)
		if err != nil {
			return fmt.Errorf("failed to insert estimation phase: %w", err)
		}
	}

	return insertItems(ctx, tx, "estimation_caveats", analysisID, rows.Caveats)
}

// insertItems writes one content+sort_order child table. The table name is
// always one of the fixed identifiers above, never user input.
func insertItems(ctx context.Context, tx pgx.Tx, table, analysisID string, items []itemRow) error {
	for _, item := range items {
		_, err := tx.Exec(ctx, fmt.Sprintf(`
			INSERT INTO %s (analysis_id, content, sort_order) VALUES ($1, $2, $3)
		`, table), analysisID, item.Content, item.SortOrder)
		if err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}
	return nil
}

// ByID loads one analysis with all child collections, restoring insertion
// order. A record owned by a different caller is reported as not found, the
// same as a missing one.
func (s *AnalysisService) ByID(ctx context.Context, id, callerID string) (*AnalysisDetail, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	detail := &AnalysisDetail{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, title, brief, model, model_name, provider,
		       input_tokens, output_tokens, total_tokens, estimated_cost, latency, created_at
		FROM analyses
		WHERE id = $1 AND user_id = $2
	`, id, callerID).Scan(
		&detail.ID,
		&detail.Title,
		&detail.Brief,
		&detail.Model,
		&detail.ModelName,
		&detail.Provider,
		&detail.InputTokens,
		&detail.OutputTokens,
		&detail.TotalTokens,
		&detail.EstimatedCost,
		&detail.Latency,
		&detail.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	rows, err := s.loadChildren(ctx, id)
	if err != nil {
		return nil, err
	}

	detail.Analysis = assembleAnalysis(detail.Title, rows)
	return detail, nil
}

func (s *AnalysisService) loadChildren(ctx context.Context, analysisID string) (analysisRows, error) {
	var rows analysisRows

	err := s.pool.QueryRow(ctx, `
		SELECT content FROM project_summaries WHERE analysis_id = $1
	`, analysisID).Scan(&rows.SummaryContent)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return rows, fmt.Errorf("failed to load project summary: %w", err)
	}

	if rows.Requirements, err = s.loadItems(ctx, "functional_requirements", analysisID); err != nil {
		return rows, err
	}
	if rows.MvpItems, err = s.loadItems(ctx, "mvp_items", analysisID); err != nil {
		return rows, err
	}
	if rows.NiceToHave, err = s.loadItems(ctx, "nice_to_have_items", analysisID); err != nil {
		return rows, err
	}
	if rows.Assumptions, err = s.loadItems(ctx, "assumptions", analysisID); err != nil {
		return rows, err
	}
	if rows.Questions, err = s.loadItems(ctx, "missing_questions", analysisID); err != nil {
		return rows, err
	}
	if rows.Caveats, err = s.loadItems(ctx, "estimation_caveats", analysisID); err != nil {
		return rows, err
	}

	catRows, err := s.pool.Query(ctx, `
		SELECT id, name, sort_order
		FROM tech_stack_categories
		WHERE analysis_id = $1
		ORDER BY sort_order ASC
	`, analysisID)
	if err != nil {
		return rows, fmt.Errorf("failed to load tech stack categories: %w", err)
	}
	type dbCategory struct {
		id  int64
		row categoryRow
	}
	var cats []dbCategory
	for catRows.Next() {
		var c dbCategory
		if err := catRows.Scan(&c.id, &c.row.Name, &c.row.SortOrder); err != nil {
			catRows.Close()
			return rows, fmt.Errorf("failed to scan tech stack category: %w", err)
		}
		cats = append(cats, c)
	}
	catRows.Close()
	if err := catRows.Err(); err != nil {
		return rows, fmt.Errorf("error iterating tech stack categories: %w", err)
	}

	for _, c := range cats {
		itemsQ, err := s.pool.Query(ctx, `
			SELECT name, sort_order
			FROM tech_stack_items
			WHERE category_id = $1
			ORDER BY sort_order ASC
		`, c.id)
		if err != nil {
			return rows, fmt.Errorf("failed to load tech stack items: %w", err)
		}
		for itemsQ.Next() {
			var item itemRow
			if err := itemsQ.Scan(&item.Content, &item.SortOrder); err != nil {
				itemsQ.Close()
				return rows, fmt.Errorf("failed to scan tech stack item: %w", err)
			}
			c.row.Items = append(c.row.Items, item)
		}
		itemsQ.Close()
		if err := itemsQ.Err(); err != nil {
			return rows, fmt.Errorf("error iterating tech stack items: %w", err)
		}
		rows.Categories = append(rows.Categories, c.row)
	}

	riskQ, err := s.pool.Query(ctx, `
		SELECT level, description, sort_order
		FROM risks
		WHERE analysis_id = $1
		ORDER BY sort_order ASC
	`, analysisID)
	if err != nil {
		return rows, fmt.Errorf("failed to load risks: %w", err)
	}
	for riskQ.Next() {
		var r riskRow
		if err := riskQ.Scan(&r.Level, &r.Description, &r.SortOrder); err != nil {
			riskQ.Close()
			return rows, fmt.Errorf("failed to scan risk: %w", err)
		}
		rows.Risks = append(rows.Risks, r)
	}
	riskQ.Close()
	if err := riskQ.Err(); err != nil {
		return rows, fmt.Errorf("error iterating risks: %w", err)
	}

	err = s.pool.QueryRow(ctx, `
		SELECT total_duration, total_effort, team_size
		FROM estimation_summaries
		WHERE analysis_id = $1
	`, analysisID).Scan(&rows.TotalDuration, &rows.TotalEffort, &rows.TeamSize)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return rows, fmt.Errorf("failed to load estimation summary: %w", err)
	}

	phaseQ, err := s.pool.Query(ctx, `
		SELECT name, duration, effort, sort_order
		FROM estimation_phases
		WHERE analysis_id = $1
		ORDER BY sort_order ASC
	`, analysisID)
	if err != nil {
		return rows, fmt.Errorf("failed to load estimation phases: %w", err)
	}
	for phaseQ.Next() {
		var p phaseRow
		if err := phaseQ.Scan(&p.Name, &p.Duration, &p.Effort, &p.SortOrder); err != nil {
			phaseQ.Close()
			return rows, fmt.Errorf("failed to scan estimation phase: %w", err)
		}
		rows.Phases = append(rows.Phases, p)
	}
	phaseQ.Close()
	if err := phaseQ.Err(); err != nil {
		return rows, fmt.Errorf("error iterating estimation phases: %w", err)
	}

	return rows, nil
}

func (s *AnalysisService) loadItems(ctx context.Context, table, analysisID string) ([]itemRow, error) {
	q, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT content, sort_order FROM %s WHERE analysis_id = $1 ORDER BY sort_order ASC
	`, table), analysisID)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", table, err)
	}
	defer q.Close()

	var items []itemRow
	for q.Next() {
		var item itemRow
		if err := q.Scan(&item.Content, &item.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		items = append(items, item)
	}
	if err := q.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", table, err)
	}
	return items, nil
}

// ByUser lists a caller's analyses, newest first, flat fields only.
func (s *AnalysisService) ByUser(ctx context.Context, callerID string, limit int) ([]AnalysisSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	q, err := s.pool.Query(ctx, `
		SELECT id, title, model, model_name, provider,
		       estimated_cost, input_tokens, output_tokens, created_at
		FROM analyses
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, callerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer q.Close()

	summaries := make([]AnalysisSummary, 0, limit)
	for q.Next() {
		var sum AnalysisSummary
		err := q.Scan(
			&sum.ID,
			&sum.Title,
			&sum.Model,
			&sum.ModelName,
			&sum.Provider,
			&sum.EstimatedCost,
			&sum.InputTokens,
			&sum.OutputTokens,
			&sum.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis summary: %w", err)
		}
		summaries = append(summaries, sum)
	}
	if err := q.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analyses: %w", err)
	}

	return summaries, nil
}

// Delete removes one analysis and, via cascading foreign keys, all its child
// rows. Ownership is enforced the same way as ByID.
func (s *AnalysisService) Delete(ctx context.Context, id, callerID string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	result, err := s.pool.Exec(ctx, `
		DELETE FROM analyses WHERE id = $1 AND user_id = $2
	`, id, callerID)
	if err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrAnalysisNotFound
	}
	return nil
}
