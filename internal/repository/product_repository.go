package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/thesbsofficial/unity-v3-sub000/internal/domain"
)

type ProductFilter struct {
	Category string
	Status   domain.ProductStatus
	Limit    int
	Offset   int
}

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProductStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}
