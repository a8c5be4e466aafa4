package email

import (
	"context"
	"fmt"
	"log"

	"github.com/resend/resend-go/v2"
)

// ResendEmailService implements EmailService using Resend
type ResendEmailService struct {
	client *resend.Client
	config *EmailConfig
}

// NewResendEmailService creates a new Resend email service
func NewResendEmailService(config *EmailConfig) (*ResendEmailService, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}

	if config.FromEmail == "" {
		return nil, fmt.Errorf("from email is required")
	}

	client := resend.NewClient(config.APIKey)

	return &ResendEmailService{
		client: client,
		config: config,
	}, nil
}

func (s *ResendEmailService) send(ctx context.Context, to, subject, html, kind string) error {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail),
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		log.Printf("Failed to send %s email to %s: %v", kind, to, err)
		return fmt.Errorf("failed to send %s email: %w", kind, err)
	}

	log.Printf("%s email sent successfully to %s (ID: %s)", kind, to, sent.Id)
	return nil
}

// SendOrderConfirmation notifies a buyer that their order was received
func (s *ResendEmailService) SendOrderConfirmation(ctx context.Context, to, name, orderID string, totalCents int64) error {
	html := OrderConfirmationTemplate(name, orderID, totalCents)
	return s.send(ctx, to, "Your SBS Order Confirmation", html, "order confirmation")
}

// SendSellReceipt acknowledges a sell-submission from the public form
func (s *ResendEmailService) SendSellReceipt(ctx context.Context, to, submissionID string) error {
	html := SellReceiptTemplate(submissionID)
	return s.send(ctx, to, "We Received Your Sell Submission", html, "sell receipt")
}

// SendSellDecision notifies a seller of an accept/reject decision
func (s *ResendEmailService) SendSellDecision(ctx context.Context, to, submissionID string, accepted bool, notes string) error {
	html := SellDecisionTemplate(submissionID, accepted, notes)
	subject := "Update On Your Sell Submission"
	return s.send(ctx, to, subject, html, "sell decision")
}

// SendPasswordReset sends a password reset link to the user
func (s *ResendEmailService) SendPasswordReset(ctx context.Context, to, name, token string) error {
	resetURL := fmt.Sprintf("%s?token=%s", s.config.ResetURL, token)
	html := PasswordResetTemplate(name, resetURL)
	return s.send(ctx, to, "Reset Your Password", html, "password reset")
}
