package domain

import (
	"time"

	"github.com/google/uuid"
)

type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusSold     ProductStatus = "sold"
	ProductStatusArchived ProductStatus = "archived"
)

type Product struct {
	ID          uuid.UUID     `json:"id" db:"id"`
	Title       string        `json:"title" db:"title"`
	Description string        `json:"description" db:"description"`
	Category    string        `json:"category" db:"category"`
	Brand       string        `json:"brand" db:"brand"`
	Size        string        `json:"size" db:"size"`
	PriceCents  int64         `json:"price_cents" db:"price_cents"`
	ImageKey    string        `json:"image_key" db:"image_key"`
	ImageURL    string        `json:"image_url" db:"image_url"`
	Status      ProductStatus `json:"status" db:"status"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}
