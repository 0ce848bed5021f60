package email

import (
	"context"
	"fmt"
	"time"

	"basil/internal/config"
	"basil/internal/logger"
	"basil/internal/models"

	"github.com/mailgun/mailgun-go/v5"
)

type Service struct {
	client      mailgun.Mailgun
	domain      string
	senderEmail string
	senderName  string
	enabled     bool
}

func NewService(cfg *config.Config) *Service {
	enabled := cfg.MailgunDomain != "" && cfg.MailgunAPIKey != ""

	var client mailgun.Mailgun
	if enabled {
		client = mailgun.NewMailgun(cfg.MailgunAPIKey)
	}

	return &Service{
		client:      client,
		domain:      cfg.MailgunDomain,
		senderEmail: cfg.MailgunSenderEmail,
		senderName:  cfg.MailgunSenderName,
		enabled:     enabled,
	}
}

func (s *Service) IsEnabled() bool {
	return s.enabled
}

// SendOrderConfirmation mails the customer a summary of a freshly placed
// order.
func (s *Service) SendOrderConfirmation(user *models.User, order *models.Order) error {
	if !s.enabled {
		return fmt.Errorf("email service is not configured")
	}

	subject := fmt.Sprintf("Your Basil order %s is confirmed", order.OrderNumber)
	htmlBody := s.generateOrderConfirmationHTML(user, order)
	textBody := s.generateOrderConfirmationText(user, order)

	message := mailgun.NewMessage(
		s.domain,
		fmt.Sprintf("%s <%s>", s.senderName, s.senderEmail),
		subject,
		textBody,
		user.Email,
	)
	message.SetHTML(htmlBody)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send order confirmation to %s: %w", user.Email, err)
	}

	logger.Info("Order confirmation sent",
		"email", user.Email,
		"order_number", order.OrderNumber,
		"message_id", resp)
	return nil
}
