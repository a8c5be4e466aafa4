package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/thesbsofficial/unity-v3-sub000/internal/domain"
)

type SubmissionRepository interface {
	Create(ctx context.Context, submission *domain.SellSubmission) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SellSubmission, error)
	List(ctx context.Context, status domain.SubmissionStatus, limit, offset int) ([]*domain.SellSubmission, error)
	Review(ctx context.Context, id uuid.UUID, status domain.SubmissionStatus, notes string) error
}
