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

type SellService struct {
	submissionRepo repository.SubmissionRepository
	emailService   email.EmailService
}

func NewSellService(submissionRepo repository.SubmissionRepository, emailService email.EmailService) *SellService {
	return &SellService{submissionRepo: submissionRepo, emailService: emailService}
}

type SellSubmissionRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"max=30"`
	Description string `json:"description" validate:"required,max=5000"`
	Brand       string `json:"brand" validate:"max=100"`
	Category    string `json:"category" validate:"max=50"`
	AskingCents int64  `json:"asking_cents" validate:"gte=0"`
}

// Submit records a public sell-form intake and sends the seller a receipt.
func (s *SellService) Submit(ctx context.Context, req SellSubmissionRequest) (*domain.SellSubmission, error) {
	submission := &domain.SellSubmission{
		ID:          uuid.New(),
		Email:       req.Email,
		Phone:       req.Phone,
		Description: req.Description,
		Brand:       req.Brand,
		Category:    req.Category,
		AskingCents: req.AskingCents,
		Status:      domain.SubmissionStatusPending,
		CreatedAt:   time.Now(),
	}

	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		return nil, err
	}

	if err := s.emailService.SendSellReceipt(ctx, submission.Email, submission.ID.String()); err != nil {
		log.Printf("[SELL] warning: failed to send receipt email: %v", err)
	}

	return submission, nil
}

func (s *SellService) Get(ctx context.Context, id uuid.UUID) (*domain.SellSubmission, error) {
	return s.submissionRepo.GetByID(ctx, id)
}

func (s *SellService) List(ctx context.Context, status domain.SubmissionStatus, limit, offset int) ([]*domain.SellSubmission, error) {
	return s.submissionRepo.List(ctx, status, limit, offset)
}

// Review records an accept/reject decision and notifies the seller.
func (s *SellService) Review(ctx context.Context, id uuid.UUID, accept bool, notes string) (*domain.SellSubmission, error) {
	status := domain.SubmissionStatusRejected
	if accept {
		status = domain.SubmissionStatusAccepted
	}

	if err := s.submissionRepo.Review(ctx, id, status, notes); err != nil {
		return nil, err
	}

	submission, err := s.submissionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.emailService.SendSellDecision(ctx, submission.Email, submission.ID.String(), accept, notes); err != nil {
		log.Printf("[SELL] warning: failed to send decision email: %v", err)
	}

	return submission, nil
}
