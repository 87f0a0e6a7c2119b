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

var ErrEmailTaken = errors.New("email already registered")

// CreateRecruiter inserts a new recruiter account and returns it.
func (r *Repository) CreateRecruiter(ctx context.Context, name, email, passwordHash string) (*model.Recruiter, error) {
	const q = `
INSERT INTO recruiters (id, name, email, password_hash, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())
RETURNING id, name, email, password_hash, created_at, updated_at
`
	var rec model.Recruiter
	row := r.db.QueryRow(ctx, q, uuid.New(), name, email, passwordHash)
	if err := row.Scan(&rec.ID, &rec.Name, &rec.Email, &rec.PasswordHash, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert recruiter: %w", err)
	}
	return &rec, nil
}

// GetRecruiterByEmail returns a recruiter by email.
func (r *Repository) GetRecruiterByEmail(ctx context.Context, email string) (*model.Recruiter, error) {
	const q = `
SELECT id, name, email, password_hash, created_at, updated_at
FROM recruiters
WHERE email = $1
`
	var rec model.Recruiter
	row := r.db.QueryRow(ctx, q, email)
	if err := row.Scan(&rec.ID, &rec.Name, &rec.Email, &rec.PasswordHash, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("scan recruiter by email: %w", err)
	}
	return &rec, nil
}

// GetRecruiterByID returns a recruiter by id.
func (r *Repository) GetRecruiterByID(ctx context.Context, id uuid.UUID) (*model.Recruiter, error) {
	const q = `
SELECT id, name, email, password_hash, created_at, updated_at
FROM recruiters
WHERE id = $1
`
	var rec model.Recruiter
	row := r.db.QueryRow(ctx, q, id)
	if err := row.Scan(&rec.ID, &rec.Name, &rec.Email, &rec.PasswordHash, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("scan recruiter by id: %w", err)
	}
	return &rec, nil
}
