package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/thesbsofficial/unity-v3-sub000/internal/domain"
	"github.com/thesbsofficial/unity-v3-sub000/internal/repository"
)

type analyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository creates a new PostgreSQL analytics repository
func NewAnalyticsRepository(db *sqlx.DB) repository.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) Record(ctx context.Context, event *domain.AnalyticsEvent) error {
	query := `
		INSERT INTO analytics_events (id, event_type, path, session_id, meta, created_at)
		VALUES (:id, :event_type, :path, :session_id, :meta, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("failed to record analytics event: %w", err)
	}
	return nil
}

// DailyCounts aggregates events per day and type over [from, to).
func (r *analyticsRepository) DailyCounts(ctx context.Context, from, to time.Time) ([]*domain.DailyEventCount, error) {
	query := `
		SELECT date_trunc('day', created_at) AS day,
		       event_type,
		       count(*) AS count
		FROM analytics_events
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY day, event_type
		ORDER BY day, event_type`

	counts := []*domain.DailyEventCount{}
	if err := r.db.SelectContext(ctx, &counts, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to aggregate analytics events: %w", err)
	}
	return counts, nil
}
