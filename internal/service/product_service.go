package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/thesbsofficial/unity-v3-sub000/internal/domain"
	"github.com/thesbsofficial/unity-v3-sub000/internal/repository"
	"github.com/thesbsofficial/unity-v3-sub000/pkg/images"
)

// ImageStore is the slice of pkg/images the product service needs. Nil-able
// via NoopImageStore when image storage is disabled.
type ImageStore interface {
	Upload(ctx context.Context, filename, contentType string, data []byte) (key, url string, err error)
	Delete(ctx context.Context, key string) error
}

// NoopImageStore rejects uploads; used when IMAGES_ENABLED is false.
type NoopImageStore struct{}

func (NoopImageStore) Upload(ctx context.Context, filename, contentType string, data []byte) (string, string, error) {
	return "", "", domain.ErrValidation
}

func (NoopImageStore) Delete(ctx context.Context, key string) error { return nil }

var _ ImageStore = (*images.Store)(nil)

type ProductService struct {
	productRepo repository.ProductRepository
	imageStore  ImageStore
}

func NewProductService(productRepo repository.ProductRepository, imageStore ImageStore) *ProductService {
	return &ProductService{productRepo: productRepo, imageStore: imageStore}
}

type ProductInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
	Category    string `json:"category" validate:"required,max=50"`
	Brand       string `json:"brand" validate:"max=100"`
	Size        string `json:"size" validate:"max=20"`
	PriceCents  int64  `json:"price_cents" validate:"required,gt=0"`
}

func (s *ProductService) Create(ctx context.Context, input ProductInput) (*domain.Product, error) {
	now := time.Now()
	product := &domain.Product{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Brand:       input.Brand,
		Size:        input.Size,
		PriceCents:  input.PriceCents,
		Status:      domain.ProductStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

func (s *ProductService) List(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	return s.productRepo.List(ctx, filter)
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Title = input.Title
	product.Description = input.Description
	product.Category = input.Category
	product.Brand = input.Brand
	product.Size = input.Size
	product.PriceCents = input.PriceCents
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes the product row and, best effort, its stored image.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	if product.ImageKey != "" {
		if err := s.imageStore.Delete(ctx, product.ImageKey); err != nil {
			log.Printf("[PRODUCT] warning: failed to delete image %s: %v", product.ImageKey, err)
		}
	}
	return nil
}

// AttachImage uploads image bytes and stores the resulting key and URL on the
// product, replacing any previous image.
func (s *ProductService) AttachImage(ctx context.Context, id uuid.UUID, filename, contentType string, data []byte) (*domain.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key, url, err := s.imageStore.Upload(ctx, filename, contentType, data)
	if err != nil {
		return nil, err
	}

	oldKey := product.ImageKey
	product.ImageKey = key
	product.ImageURL = url
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	if oldKey != "" && oldKey != key {
		if err := s.imageStore.Delete(ctx, oldKey); err != nil {
			log.Printf("[PRODUCT] warning: failed to delete replaced image %s: %v", oldKey, err)
		}
	}
	return product, nil
}

// RemoveImage detaches and deletes a product's stored image. No-op for a
// product without one.
func (s *ProductService) RemoveImage(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.ImageKey == "" {
		return product, nil
	}

	oldKey := product.ImageKey
	product.ImageKey = ""
	product.ImageURL = ""
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	if err := s.imageStore.Delete(ctx, oldKey); err != nil {
		log.Printf("[PRODUCT] warning: failed to delete image %s: %v", oldKey, err)
	}
	return product, nil
}
