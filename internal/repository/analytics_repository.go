package repository

import (
	"context"
	"time"

	"github.com/thesbsofficial/unity-v3-sub000/internal/domain"
)

type AnalyticsRepository interface {
	Record(ctx context.Context, event *domain.AnalyticsEvent) error
	// DailyCounts aggregates events per day and type over [from, to).
	DailyCounts(ctx context.Context, from, to time.Time) ([]*domain.DailyEventCount, error)
}
