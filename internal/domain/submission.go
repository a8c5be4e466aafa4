package domain

import (
	"time"

	"github.com/google/uuid"
)

type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "pending"
	SubmissionStatusAccepted SubmissionStatus = "accepted"
	SubmissionStatusRejected SubmissionStatus = "rejected"
)

// SellSubmission is an intake record from the public sell form. It is created
// unauthenticated, so it carries contact details instead of a user id.
type SellSubmission struct {
	ID          uuid.UUID        `json:"id" db:"id"`
	Email       string           `json:"email" db:"email"`
	Phone       string           `json:"phone" db:"phone"`
	Description string           `json:"description" db:"description"`
	Brand       string           `json:"brand" db:"brand"`
	Category    string           `json:"category" db:"category"`
	AskingCents int64            `json:"asking_cents" db:"asking_cents"`
	Status      SubmissionStatus `json:"status" db:"status"`
	AdminNotes  string           `json:"admin_notes,omitempty" db:"admin_notes"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	ReviewedAt  *time.Time       `json:"reviewed_at,omitempty" db:"reviewed_at"`
}
