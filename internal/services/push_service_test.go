package services

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "₹500", FormatPrice(500))
	assert.Equal(t, "₹1,000", FormatPrice(1000))
	assert.Equal(t, "₹12,500", FormatPrice(12500.75))
	assert.Equal(t, "₹1,00,000", FormatPrice(100000))
	assert.Equal(t, "₹12,34,567", FormatPrice(1234567))
	assert.Equal(t, "₹0", FormatPrice(0))
	assert.Equal(t, "-₹1,500", FormatPrice(-1500))
}

func TestPushSend(t *testing.T) {
	var received pushMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := NewPushService(server.URL)
	err := svc.Send("ExponentPushToken[abc]", "Order update", "On the way", map[string]string{"order_id": "42"})
	require.NoError(t, err)

	assert.Equal(t, "ExponentPushToken[abc]", received.To)
	assert.Equal(t, "Order update", received.Title)
	assert.Equal(t, "On the way", received.Body)
	assert.Equal(t, "42", received.Data["order_id"])
}

func TestPushSendGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	svc := NewPushService(server.URL)
	err := svc.Send("token", "title", "body", nil)
	assert.Error(t, err)
}

func TestPushSendUnconfigured(t *testing.T) {
	svc := NewPushService("")
	assert.NoError(t, svc.Send("token", "title", "body", nil))
}

func TestPushSendEmptyToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty token")
	}))
	defer server.Close()

	svc := NewPushService(server.URL)
	assert.NoError(t, svc.Send("", "title", "body", nil))
}
