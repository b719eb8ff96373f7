// utils/email.go
package utils

import (
	"fmt"
	"os"

	"github.com/keighl/postmark"

	"foodie-app/models"
)

// EmailService handles sending emails using Postmark
type EmailService struct {
	client *postmark.Client
}

// NewEmailService initializes and returns a new EmailService instance.
// Returns nil when no API token is configured; callers treat a nil service as
// "email disabled".
func NewEmailService() *EmailService {
	apiToken := os.Getenv("POSTMARK_API_TOKEN")
	if apiToken == "" {
		return nil
	}
	client := postmark.NewClient(apiToken, "")
	return &EmailService{
		client: client,
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	if es == nil {
		return nil
	}
	_, err := es.client.SendEmail(postmark.Email{
		From:     os.Getenv("EMAIL_SENDER"),
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})

	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendOrderConfirmationEmail sends an order confirmation email to the user
func (es *EmailService) SendOrderConfirmationEmail(toEmail string, order models.Order) error {
	subject := "Order Confirmation - Foodie"
	htmlContent := fmt.Sprintf(
		"<strong>Dear Customer,</strong><br><br>Your order (ID: %s) has been placed and the restaurant is on it.<br><br>Total Amount: <strong>₦%.2f</strong><br>Delivering to: <strong>%s, %s</strong><br><br>Thank you for ordering with Foodie!",
		order.OrderID,
		order.TotalAmount,
		order.Address.Street,
		order.Address.City,
	)

	return es.SendEmail(toEmail, subject, htmlContent)
}
