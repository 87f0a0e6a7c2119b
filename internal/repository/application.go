package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hirewise/hirewise/pkg/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const applicationColumns = `
a.id, a.job_id, a.first_name, a.last_name, a.email, a.phone, a.resume,
a.cover_letter, a.linkedin_url, a.portfolio_url, a.current_company,
a.years_of_experience, a.expected_salary, a.notice_period, a.status,
a.rating, a.notes, a.interview, a.applied_at, a.updated_at`

// applicationReturning is applicationColumns without the query alias, for
// INSERT/UPDATE/DELETE RETURNING clauses.
const applicationReturning = `
id, job_id, first_name, last_name, email, phone, resume,
cover_letter, linkedin_url, portfolio_url, current_company,
years_of_experience, expected_salary, notice_period, status,
rating, notes, interview, applied_at, updated_at`

func scanApplication(row pgx.Row) (*model.Application, error) {
	var a model.Application
	err := row.Scan(
		&a.ID, &a.JobID, &a.FirstName, &a.LastName, &a.Email, &a.Phone, &a.Resume,
		&a.CoverLetter, &a.LinkedinURL, &a.PortfolioURL, &a.CurrentCompany,
		&a.YearsOfExperience, &a.ExpectedSalary, &a.NoticePeriod, &a.Status,
		&a.Rating, &a.Notes, &a.Interview, &a.AppliedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("scan application: %w", err)
	}
	return &a, nil
}

// CreateApplication inserts the application and bumps the job's application
// counter in one transaction. Emails are unique per job, case-insensitive.
func (r *Repository) CreateApplication(ctx context.Context, app *model.Application) (*model.Application, error) {
	var created *model.Application
	err := r.execTx(ctx, func(tx pgx.Tx) error {
		const q = `
INSERT INTO applications (
	id, job_id, first_name, last_name, email, phone, resume,
	cover_letter, linkedin_url, portfolio_url, current_company,
	years_of_experience, expected_salary, notice_period, status,
	interview, applied_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, now(), now())
RETURNING ` + applicationReturning
		row := tx.QueryRow(ctx, q,
			uuid.New(), app.JobID, app.FirstName, app.LastName, app.Email, app.Phone, app.Resume,
			app.CoverLetter, app.LinkedinURL, app.PortfolioURL, app.CurrentCompany,
			app.YearsOfExperience, app.ExpectedSalary, app.NoticePeriod, app.Status,
			app.Interview,
		)
		a, err := scanApplication(row)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return model.ErrDuplicateApplication
			}
			return err
		}

		if _, err := tx.Exec(ctx,
			`UPDATE jobs SET applications = applications + 1 WHERE id = $1`, app.JobID); err != nil {
			return fmt.Errorf("bump application counter: %w", err)
		}
		created = a
		return nil
	})
	return created, err
}

func (r *Repository) GetApplication(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	const q = `SELECT ` + applicationColumns + ` FROM applications a WHERE a.id = $1`
	return scanApplication(r.db.QueryRow(ctx, q, id))
}

// GetByInterviewToken resolves the interview token to its application, with
// the owning job joined in for prompt and email context.
func (r *Repository) GetByInterviewToken(ctx context.Context, token string) (*model.Application, error) {
	const q = `
SELECT ` + applicationColumns + `,
	j.id, j.title, j.department, j.location, j.experience_level, j.skills
FROM applications a
JOIN jobs j ON j.id = a.job_id
WHERE a.interview->>'token' = $1`

	var a model.Application
	var j model.Job
	row := r.db.QueryRow(ctx, q, token)
	err := row.Scan(
		&a.ID, &a.JobID, &a.FirstName, &a.LastName, &a.Email, &a.Phone, &a.Resume,
		&a.CoverLetter, &a.LinkedinURL, &a.PortfolioURL, &a.CurrentCompany,
		&a.YearsOfExperience, &a.ExpectedSalary, &a.NoticePeriod, &a.Status,
		&a.Rating, &a.Notes, &a.Interview, &a.AppliedAt, &a.UpdatedAt,
		&j.ID, &j.Title, &j.Department, &j.Location, &j.ExperienceLevel, &j.Skills,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("scan application by token: %w", err)
	}
	a.Job = &j
	return &a, nil
}

// ListApplications returns applications matching the filter, newest first,
// with minimal job context joined in.
func (r *Repository) ListApplications(ctx context.Context, filter model.ApplicationFilter) ([]model.Application, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where += fmt.Sprintf(" AND a.status = $%d", len(args))
	}
	if filter.JobID != nil {
		args = append(args, *filter.JobID)
		where += fmt.Sprintf(" AND a.job_id = $%d", len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(1) FROM applications a"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count applications: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	q := `
SELECT ` + applicationColumns + `, j.id, j.title, j.department, j.location, j.experience_level, j.skills
FROM applications a
JOIN jobs j ON j.id = a.job_id` + where +
		fmt.Sprintf(" ORDER BY a.applied_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query applications: %w", err)
	}
	defer rows.Close()

	out := make([]model.Application, 0, limit)
	for rows.Next() {
		var a model.Application
		var j model.Job
		if err := rows.Scan(
			&a.ID, &a.JobID, &a.FirstName, &a.LastName, &a.Email, &a.Phone, &a.Resume,
			&a.CoverLetter, &a.LinkedinURL, &a.PortfolioURL, &a.CurrentCompany,
			&a.YearsOfExperience, &a.ExpectedSalary, &a.NoticePeriod, &a.Status,
			&a.Rating, &a.Notes, &a.Interview, &a.AppliedAt, &a.UpdatedAt,
			&j.ID, &j.Title, &j.Department, &j.Location, &j.ExperienceLevel, &j.Skills,
		); err != nil {
			return nil, 0, fmt.Errorf("scan application row: %w", err)
		}
		a.Job = &j
		out = append(out, a)
	}
	return out, total, rows.Err()
}

// ListByJob returns every application for one job. Used by the ranking
// pipeline, which needs the full set rather than a page.
func (r *Repository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]model.Application, error) {
	const q = `SELECT ` + applicationColumns + ` FROM applications a WHERE a.job_id = $1 ORDER BY a.applied_at ASC`
	rows, err := r.db.Query(ctx, q, jobID)
	if err != nil {
		return nil, fmt.Errorf("query applications by job: %w", err)
	}
	defer rows.Close()

	var out []model.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// UpdateInterview writes the interview document and the application status in
// a single row update so the pair can never diverge. A nil interview clears
// the document.
func (r *Repository) UpdateInterview(ctx context.Context, appID uuid.UUID, iv *model.Interview, status model.ApplicationStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE applications SET interview = $2, status = $3, updated_at = now() WHERE id = $1`,
		appID, iv, status)
	if err != nil {
		return fmt.Errorf("update interview: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// UpdateApplicationStatus sets the status and returns the updated row.
func (r *Repository) UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status model.ApplicationStatus) (*model.Application, error) {
	const q = `
UPDATE applications a SET status = $2, updated_at = now()
WHERE id = $1
RETURNING ` + applicationReturning
	return scanApplication(r.db.QueryRow(ctx, q, id, status))
}

// AddNote appends a recruiter note to the application's note list.
func (r *Repository) AddNote(ctx context.Context, id uuid.UUID, note model.Note) (*model.Application, error) {
	const q = `
UPDATE applications SET
	notes = COALESCE(notes, '[]'::jsonb) || $2::jsonb,
	updated_at = now()
WHERE id = $1
RETURNING ` + applicationReturning
	return scanApplication(r.db.QueryRow(ctx, q, id, []model.Note{note}))
}

// RateApplication sets the 1-5 recruiter rating.
func (r *Repository) RateApplication(ctx context.Context, id uuid.UUID, rating int) (*model.Application, error) {
	const q = `
UPDATE applications SET rating = $2, updated_at = now()
WHERE id = $1
RETURNING ` + applicationReturning
	return scanApplication(r.db.QueryRow(ctx, q, id, rating))
}

// DeleteApplication removes the row and decrements the job counter. The
// caller is responsible for deleting the stored résumé afterwards.
func (r *Repository) DeleteApplication(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	var deleted *model.Application
	err := r.execTx(ctx, func(tx pgx.Tx) error {
		const q = `DELETE FROM applications WHERE id = $1 RETURNING ` + applicationReturning
		a, err := scanApplication(tx.QueryRow(ctx, q, id))
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`UPDATE jobs SET applications = GREATEST(applications - 1, 0) WHERE id = $1`, a.JobID); err != nil {
			return fmt.Errorf("decrement application counter: %w", err)
		}
		deleted = a
		return nil
	})
	return deleted, err
}
