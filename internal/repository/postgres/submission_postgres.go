package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/thesbsofficial/unity-v3-sub000/internal/domain"
	"github.com/thesbsofficial/unity-v3-sub000/internal/repository"
)

type submissionRepository struct {
	db *sqlx.DB
}

// NewSubmissionRepository creates a new PostgreSQL sell-submission repository
func NewSubmissionRepository(db *sqlx.DB) repository.SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, submission *domain.SellSubmission) error {
	query := `
		INSERT INTO sell_submissions (
			id, email, phone, description, brand, category,
			asking_cents, status, admin_notes, created_at
		) VALUES (
			:id, :email, :phone, :description, :brand, :category,
			:asking_cents, :status, :admin_notes, :created_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, submission); err != nil {
		return fmt.Errorf("failed to create sell submission: %w", err)
	}
	return nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SellSubmission, error) {
	query := `
		SELECT id, email, phone, description, brand, category,
		       asking_cents, status, admin_notes, created_at, reviewed_at
		FROM sell_submissions
		WHERE id = $1`

	var submission domain.SellSubmission
	if err := r.db.GetContext(ctx, &submission, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get sell submission by id: %w", err)
	}
	return &submission, nil
}

func (r *submissionRepository) List(ctx context.Context, status domain.SubmissionStatus, limit, offset int) ([]*domain.SellSubmission, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := `
		SELECT id, email, phone, description, brand, category,
		       asking_cents, status, admin_notes, created_at, reviewed_at
		FROM sell_submissions
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	submissions := []*domain.SellSubmission{}
	if err := r.db.SelectContext(ctx, &submissions, query, string(status), limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list sell submissions: %w", err)
	}
	return submissions, nil
}

func (r *submissionRepository) Review(ctx context.Context, id uuid.UUID, status domain.SubmissionStatus, notes string) error {
	query := `
		UPDATE sell_submissions
		SET status = $2, admin_notes = $3, reviewed_at = $4
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, status, notes, time.Now())
	if err != nil {
		return fmt.Errorf("failed to review sell submission: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
