package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmailSendUnconfigured(t *testing.T) {
	svc := NewEmailService("", "orders@freshcut.example")
	assert.NoError(t, svc.Send("someone@example.com", "Someone", "Hi", "<p>Hi</p>"))
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, "Hello", stripTags("<p>Hello</p>"))
	assert.Equal(t, "Hi there,\nbye", stripTags("<p>Hi <strong>there</strong>,<br>bye</p>"))
	assert.Equal(t, "a\nb", stripTags("<ul><li>a</li><li>b</li></ul>"))
	assert.Equal(t, "plain", stripTags("plain"))
}
