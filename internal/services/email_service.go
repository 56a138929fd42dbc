package services

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/example/freshcut/internal/models"
)

// EmailService sends transactional email through SendGrid.
type EmailService struct {
	apiKey string
	from   string
}

// NewEmailService creates a new EmailService.
func NewEmailService(apiKey, from string) *EmailService {
	return &EmailService{apiKey: apiKey, from: from}
}

// Send delivers a single HTML email.
func (s *EmailService) Send(toEmail, toName, subject, htmlBody string) error {
	if s.apiKey == "" {
		log.Println("[Email] SendGrid API key not configured")
		return nil
	}
	if toEmail == "" {
		return nil
	}

	from := mail.NewEmail("FreshCut", s.from)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, stripTags(htmlBody), htmlBody)

	client := sendgrid.NewSendClient(s.apiKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("[Email] Failed to send to %s: %v", toEmail, err)
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		log.Printf("[Email] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}

	return nil
}

// SendOrderConfirmation emails the customer a summary of a placed order.
func (s *EmailService) SendOrderConfirmation(toEmail, toName string, order *models.Order) error {
	subject := fmt.Sprintf("Order %s confirmed", order.OrderNumber)

	var items strings.Builder
	for _, item := range order.Items {
		items.WriteString(fmt.Sprintf("<li>%s × %d — %s</li>",
			item.ProductName, item.Quantity, FormatPrice(item.LineTotal)))
	}

	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Thanks for your order <strong>%s</strong>.</p><ul>%s</ul><p>Total: <strong>%s</strong><br>Payment: %s (%s)</p><p>We'll let you know when it's on its way.</p>",
		toName,
		order.OrderNumber,
		items.String(),
		FormatPrice(order.TotalAmount),
		order.PaymentMethod,
		order.PaymentStatus,
	)

	return s.Send(toEmail, toName, subject, body)
}

func stripTags(html string) string {
	replacer := strings.NewReplacer("<br>", "\n", "</p>", "\n", "</li>", "\n")
	text := replacer.Replace(html)

	var result strings.Builder
	inTag := false
	for _, r := range text {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			result.WriteRune(r)
		}
	}
	return strings.TrimSpace(result.String())
}
