package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hirewise/hirewise/pkg/model"
	"github.com/jackc/pgx/v5"
)

const jobColumns = `
id, title, department, location, employment_type, experience_level,
salary_range, description, responsibilities, requirements, skills, benefits,
application_deadline, status, posted_by, views, applications, ai_generated,
created_at, updated_at`

func scanJob(row pgx.Row) (*model.Job, error) {
	var j model.Job
	err := row.Scan(
		&j.ID, &j.Title, &j.Department, &j.Location, &j.EmploymentType, &j.ExperienceLevel,
		&j.SalaryRange, &j.Description, &j.Responsibilities, &j.Requirements, &j.Skills, &j.Benefits,
		&j.ApplicationDeadline, &j.Status, &j.PostedBy, &j.Views, &j.Applications, &j.AIGenerated,
		&j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("scan job: %w", err)
	}
	return &j, nil
}

func (r *Repository) CreateJob(ctx context.Context, job *model.Job) (*model.Job, error) {
	const q = `
INSERT INTO jobs (
	id, title, department, location, employment_type, experience_level,
	salary_range, description, responsibilities, requirements, skills, benefits,
	application_deadline, status, posted_by, ai_generated, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, now(), now())
RETURNING ` + jobColumns
	row := r.db.QueryRow(ctx, q,
		uuid.New(), job.Title, job.Department, job.Location, job.EmploymentType, job.ExperienceLevel,
		job.SalaryRange, job.Description, job.Responsibilities, job.Requirements, job.Skills, job.Benefits,
		job.ApplicationDeadline, job.Status, job.PostedBy, job.AIGenerated,
	)
	return scanJob(row)
}

func (r *Repository) GetJob(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	const q = `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	return scanJob(r.db.QueryRow(ctx, q, id))
}

// ListJobs returns jobs matching the filter, newest first.
func (r *Repository) ListJobs(ctx context.Context, filter model.JobFilter) ([]model.Job, error) {
	q := `SELECT ` + jobColumns + ` FROM jobs WHERE 1=1`
	args := []interface{}{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		q += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Department != nil {
		args = append(args, *filter.Department)
		q += fmt.Sprintf(" AND department = $%d", len(args))
	}
	if filter.Location != nil {
		args = append(args, "%"+*filter.Location+"%")
		q += fmt.Sprintf(" AND location ILIKE $%d", len(args))
	}
	if filter.Search != nil {
		args = append(args, "%"+*filter.Search+"%")
		n := len(args)
		q += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d OR skills ILIKE $%d)", n, n, n)
	}
	q += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var out []model.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *j)
	}
	return out, rows.Err()
}

// UpdateJob applies the non-nil fields of req and returns the updated row.
func (r *Repository) UpdateJob(ctx context.Context, id uuid.UUID, req model.UpdateJobReq) (*model.Job, error) {
	sets := []string{}
	args := []interface{}{}

	add := func(col string, val interface{}) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if req.Title != nil {
		add("title", *req.Title)
	}
	if req.Department != nil {
		add("department", *req.Department)
	}
	if req.Location != nil {
		add("location", *req.Location)
	}
	if req.EmploymentType != nil {
		add("employment_type", *req.EmploymentType)
	}
	if req.ExperienceLevel != nil {
		add("experience_level", *req.ExperienceLevel)
	}
	if req.SalaryRange != nil {
		add("salary_range", *req.SalaryRange)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if req.Responsibilities != nil {
		add("responsibilities", *req.Responsibilities)
	}
	if req.Requirements != nil {
		add("requirements", *req.Requirements)
	}
	if req.Skills != nil {
		add("skills", *req.Skills)
	}
	if req.Benefits != nil {
		add("benefits", *req.Benefits)
	}
	if req.ApplicationDeadline != nil {
		add("application_deadline", *req.ApplicationDeadline)
	}
	if req.Status != nil {
		add("status", *req.Status)
	}

	if len(sets) == 0 {
		return r.GetJob(ctx, id)
	}
	sets = append(sets, "updated_at = now()")

	args = append(args, id)
	q := fmt.Sprintf("UPDATE jobs SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), jobColumns)
	return scanJob(r.db.QueryRow(ctx, q, args...))
}

func (r *Repository) DeleteJob(ctx context.Context, id uuid.UUID) error {
	return r.execTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM auto_fetched_candidates WHERE job_id = $1`, id); err != nil {
			return fmt.Errorf("delete sourced candidates: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM applications WHERE job_id = $1`, id); err != nil {
			return fmt.Errorf("delete applications: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete job: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrNotFound
		}
		return nil
	})
}

// AddJobViews folds buffered view counts from the cache into the row.
func (r *Repository) AddJobViews(ctx context.Context, id uuid.UUID, delta int) error {
	if delta <= 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, `UPDATE jobs SET views = views + $2 WHERE id = $1`, id, delta)
	if err != nil {
		return fmt.Errorf("add job views: %w", err)
	}
	return nil
}

func (r *Repository) JobStats(ctx context.Context) (*model.JobStats, error) {
	const q = `
SELECT
	COUNT(*),
	COUNT(*) FILTER (WHERE status = 'active'),
	COALESCE(SUM(views), 0),
	COALESCE(SUM(applications), 0)
FROM jobs`
	var s model.JobStats
	if err := r.db.QueryRow(ctx, q).Scan(&s.TotalJobs, &s.ActiveJobs, &s.TotalViews, &s.TotalApplications); err != nil {
		return nil, fmt.Errorf("job stats: %w", err)
	}
	return &s, nil
}

// CloseExpiredJobs flips active jobs whose deadline has passed to closed.
// Called periodically by the background pool.
func (r *Repository) CloseExpiredJobs(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE jobs SET status = 'closed', updated_at = now() WHERE status = 'active' AND application_deadline < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("close expired jobs: %w", err)
	}
	return tag.RowsAffected(), nil
}
