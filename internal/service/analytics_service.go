package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/thesbsofficial/unity-v3-sub000/internal/domain"
	"github.com/thesbsofficial/unity-v3-sub000/internal/repository"
)

type AnalyticsService struct {
	analyticsRepo repository.AnalyticsRepository
}

func NewAnalyticsService(analyticsRepo repository.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{analyticsRepo: analyticsRepo}
}

type TrackRequest struct {
	EventType string `json:"event_type" validate:"required,max=50"`
	Path      string `json:"path" validate:"max=500"`
	SessionID string `json:"session_id" validate:"max=100"`
	Meta      string `json:"meta" validate:"max=2000"`
}

// Track records an event. Fire and forget: ingestion failures are logged,
// never returned, so analytics can never break a page.
func (s *AnalyticsService) Track(ctx context.Context, req TrackRequest) {
	event := &domain.AnalyticsEvent{
		ID:        uuid.New(),
		EventType: req.EventType,
		Path:      req.Path,
		SessionID: req.SessionID,
		Meta:      req.Meta,
		CreatedAt: time.Now(),
	}

	if err := s.analyticsRepo.Record(ctx, event); err != nil {
		log.Printf("[ANALYTICS] warning: failed to record event: %v", err)
	}
}

// DailyCounts aggregates events per day and type over the closed-open range
// [from, to). Defaults to the trailing 30 days when unset.
func (s *AnalyticsService) DailyCounts(ctx context.Context, from, to time.Time) ([]*domain.DailyEventCount, error) {
	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	if !from.Before(to) {
		return nil, domain.ErrValidation
	}
	return s.analyticsRepo.DailyCounts(ctx, from, to)
}
