// Package email sends transactional mail for the shop: order confirmations,
// sell-submission receipts and decisions, and password reset links.
package email

import "context"

// EmailService defines the interface for sending shop emails.
type EmailService interface {
	// SendOrderConfirmation notifies a buyer that their order was received.
	SendOrderConfirmation(ctx context.Context, to, name, orderID string, totalCents int64) error

	// SendSellReceipt acknowledges a sell-submission from the public form.
	SendSellReceipt(ctx context.Context, to, submissionID string) error

	// SendSellDecision notifies a seller of an accept/reject decision.
	SendSellDecision(ctx context.Context, to, submissionID string, accepted bool, notes string) error

	// SendPasswordReset sends a password reset link to the user.
	SendPasswordReset(ctx context.Context, to, name, token string) error
}

// EmailConfig holds email service configuration.
type EmailConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
	ResetURL  string // base URL the reset token is appended to
}

// NoopEmailService sends nothing. Used when email is disabled in config so
// callers never need a nil check.
type NoopEmailService struct{}

func (NoopEmailService) SendOrderConfirmation(ctx context.Context, to, name, orderID string, totalCents int64) error {
	return nil
}

func (NoopEmailService) SendSellReceipt(ctx context.Context, to, submissionID string) error {
	return nil
}

func (NoopEmailService) SendSellDecision(ctx context.Context, to, submissionID string, accepted bool, notes string) error {
	return nil
}

func (NoopEmailService) SendPasswordReset(ctx context.Context, to, name, token string) error {
	return nil
}
