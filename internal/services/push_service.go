package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
)

// PushService delivers push notifications to the consumer app through the
// Expo push gateway.
type PushService struct {
	endpoint string
}

// NewPushService creates a new PushService.
func NewPushService(endpoint string) *PushService {
	return &PushService{endpoint: endpoint}
}

type pushMessage struct {
	To    string            `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// Send dispatches a single push message to a device token.
func (s *PushService) Send(token, title, body string, data map[string]string) error {
	if s.endpoint == "" {
		log.Println("[Push] Endpoint not configured")
		return nil
	}
	if token == "" {
		return nil
	}

	msg := pushMessage{
		To:    token,
		Title: title,
		Body:  body,
		Data:  data,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := http.Post(s.endpoint, "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Printf("[Push] Failed to send message: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Push] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("push gateway returned status %d", resp.StatusCode)
	}

	return nil
}

// FormatPrice formats an amount with Indian digit grouping, matching how
// the consumer app displays prices (last three digits, then pairs).
func FormatPrice(amount float64) string {
	str := fmt.Sprintf("%d", int64(amount))

	negative := strings.HasPrefix(str, "-")
	if negative {
		str = str[1:]
	}

	var result strings.Builder
	length := len(str)
	for i, digit := range str {
		remaining := length - i
		if i > 0 && (remaining == 3 || (remaining > 3 && remaining%2 == 1)) {
			result.WriteString(",")
		}
		result.WriteRune(digit)
	}

	formatted := "₹" + result.String()
	if negative {
		return "-" + formatted
	}
	return formatted
}
