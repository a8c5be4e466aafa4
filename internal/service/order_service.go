package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/thesbsofficial/unity-v3-sub000/internal/domain"
	"github.com/thesbsofficial/unity-v3-sub000/internal/repository"
	"github.com/thesbsofficial/unity-v3-sub000/pkg/email"
)

type OrderService struct {
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	emailService email.EmailService
}

func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, emailService email.EmailService) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		emailService: emailService,
	}
}

type CreateOrderRequest struct {
	ProductIDs []string `json:"product_ids" validate:"required,min=1,max=20,dive,uuid"`
	Address    string   `json:"address" validate:"required,max=500"`
}

// Create places an order for the given products. Prices and the total are
// taken from the product rows, never from the client, and sold or archived
// products are rejected.
func (s *OrderService) Create(ctx context.Context, session *domain.AuthSession, req CreateOrderRequest) (*domain.Order, error) {
	now := time.Now()
	order := &domain.Order{
		ID:        uuid.New(),
		UserID:    session.UserID,
		Status:    domain.OrderStatusPending,
		Address:   req.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}

	for _, rawID := range req.ProductIDs {
		productID, err := uuid.Parse(rawID)
		if err != nil {
			return nil, domain.ErrValidation
		}

		product, err := s.productRepo.GetByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		if product.Status != domain.ProductStatusActive {
			return nil, domain.ErrValidation
		}

		order.Items = append(order.Items, domain.OrderItem{
			ID:         uuid.New(),
			OrderID:    order.ID,
			ProductID:  product.ID,
			Title:      product.Title,
			PriceCents: product.PriceCents,
		})
		order.TotalCents += product.PriceCents
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	// Each ordered product comes off the shelf. One-of-a-kind stock, so sold
	// means gone rather than decremented.
	for _, item := range order.Items {
		if err := s.productRepo.UpdateStatus(ctx, item.ProductID, domain.ProductStatusSold); err != nil {
			log.Printf("[ORDER] warning: failed to mark product %s sold: %v", item.ProductID, err)
		}
	}

	if err := s.emailService.SendOrderConfirmation(ctx, session.Email, session.Name, order.ID.String(), order.TotalCents); err != nil {
		log.Printf("[ORDER] warning: failed to send confirmation email: %v", err)
	}

	return order, nil
}

// Get returns an order, restricted to its owner unless the session is admin.
func (s *OrderService) Get(ctx context.Context, session *domain.AuthSession, id uuid.UUID) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != session.UserID && !session.IsAdmin() {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

func (s *OrderService) ListMine(ctx context.Context, session *domain.AuthSession) ([]*domain.Order, error) {
	return s.orderRepo.ListByUser(ctx, session.UserID)
}

func (s *OrderService) ListAll(ctx context.Context, limit, offset int) ([]*domain.Order, error) {
	return s.orderRepo.ListAll(ctx, limit, offset)
}

func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	switch status {
	case domain.OrderStatusPending, domain.OrderStatusPaid, domain.OrderStatusShipped, domain.OrderStatusCancelled:
	default:
		return domain.ErrValidation
	}
	return s.orderRepo.UpdateStatus(ctx, id, status)
}
