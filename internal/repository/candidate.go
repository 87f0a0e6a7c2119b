package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hirewise/hirewise/pkg/model"
	"github.com/jackc/pgx/v5"
)

// ReplaceForJob full-refreshes the sourced candidate set for one (job,
// source) pair: delete then batch insert inside a transaction, so readers
// never see a half-replaced set.
func (r *Repository) ReplaceForJob(ctx context.Context, jobID uuid.UUID, source model.CandidateSource, candidates []model.AutoFetchedCandidate) error {
	return r.execTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM auto_fetched_candidates WHERE job_id = $1 AND source = $2`, jobID, source); err != nil {
			return fmt.Errorf("clear sourced candidates: %w", err)
		}

		if len(candidates) == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		const q = `
INSERT INTO auto_fetched_candidates (
	id, job_id, source, source_id, source_url, name, email, location, bio,
	current_company, skills, portfolio_url, github_stats, ai_score,
	match_analysis, strengths, concerns, contacted, outreach_sent, fetched_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
		for _, c := range candidates {
			batch.Queue(q,
				uuid.New(), jobID, source, c.SourceID, c.SourceURL, c.Name, c.Email, c.Location, c.Bio,
				c.CurrentCompany, c.Skills, c.PortfolioURL, c.GitHubStats, c.AIScore,
				c.MatchAnalysis, c.Strengths, c.Concerns, c.Contacted, c.OutreachSent, c.FetchedAt,
			)
		}

		br := tx.SendBatch(ctx, batch)
		defer br.Close()
		for i := 0; i < len(candidates); i++ {
			if _, err := br.Exec(); err != nil {
				return fmt.Errorf("batch insert candidate %d: %w", i, err)
			}
		}
		return nil
	})
}

// ListByJob returns stored sourced candidates for a job, best score first.
func (r *Repository) ListCandidatesByJob(ctx context.Context, jobID uuid.UUID, filter model.CandidateListFilter) ([]model.AutoFetchedCandidate, error) {
	limit := filter.Limit
	if limit < 1 || limit > 200 {
		limit = 100
	}

	const q = `
SELECT
	id, job_id, source, source_id, source_url, name, email, location, bio,
	current_company, skills, portfolio_url, github_stats, ai_score,
	match_analysis, strengths, concerns, contacted, outreach_sent, fetched_at
FROM auto_fetched_candidates
WHERE job_id = $1 AND ai_score >= $2
ORDER BY ai_score DESC, fetched_at DESC
LIMIT $3`

	rows, err := r.db.Query(ctx, q, jobID, filter.MinScore, limit)
	if err != nil {
		return nil, fmt.Errorf("query sourced candidates: %w", err)
	}
	defer rows.Close()

	var out []model.AutoFetchedCandidate
	for rows.Next() {
		var c model.AutoFetchedCandidate
		if err := rows.Scan(
			&c.ID, &c.JobID, &c.Source, &c.SourceID, &c.SourceURL, &c.Name, &c.Email, &c.Location, &c.Bio,
			&c.CurrentCompany, &c.Skills, &c.PortfolioURL, &c.GitHubStats, &c.AIScore,
			&c.MatchAnalysis, &c.Strengths, &c.Concerns, &c.Contacted, &c.OutreachSent, &c.FetchedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sourced candidate: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// MarkCandidateContacted flags a sourced candidate as contacted.
func (r *Repository) MarkCandidateContacted(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE auto_fetched_candidates SET contacted = true, outreach_sent = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark candidate contacted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
