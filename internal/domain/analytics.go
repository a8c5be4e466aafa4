package domain

import (
	"time"

	"github.com/google/uuid"
)

type AnalyticsEvent struct {
	ID        uuid.UUID `json:"id" db:"id"`
	EventType string    `json:"event_type" db:"event_type"`
	Path      string    `json:"path" db:"path"`
	SessionID string    `json:"session_id,omitempty" db:"session_id"`
	Meta      string    `json:"meta,omitempty" db:"meta"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DailyEventCount is one row of the admin aggregation query: events of one
// type on one day.
type DailyEventCount struct {
	Day       time.Time `json:"day" db:"day"`
	EventType string    `json:"event_type" db:"event_type"`
	Count     int64     `json:"count" db:"count"`
}
