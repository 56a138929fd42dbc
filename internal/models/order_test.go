package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOrderCanCancel(t *testing.T) {
	for _, status := range []string{
		OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing, OrderStatusOutForDelivery,
	} {
		order := Order{Status: status}
		assert.True(t, order.CanCancel(), "status %s should be cancellable", status)
	}

	for _, status := range []string{OrderStatusDelivered, OrderStatusCancelled} {
		order := Order{Status: status}
		assert.False(t, order.CanCancel(), "status %s should not be cancellable", status)
	}
}

func TestOrderAcceptableBy(t *testing.T) {
	agent := uuid.New()
	other := uuid.New()

	t.Run("unassigned confirmed or preparing", func(t *testing.T) {
		assert.True(t, (&Order{Status: OrderStatusConfirmed}).AcceptableBy(agent))
		assert.True(t, (&Order{Status: OrderStatusPreparing}).AcceptableBy(agent))
		assert.False(t, (&Order{Status: OrderStatusPending}).AcceptableBy(agent))
		assert.False(t, (&Order{Status: OrderStatusDelivered}).AcceptableBy(agent))
	})

	t.Run("assigned to caller", func(t *testing.T) {
		order := Order{Status: OrderStatusOutForDelivery, AssignedToID: &agent}
		assert.True(t, order.AcceptableBy(agent))
		assert.True(t, order.AlreadyAcceptedBy(agent))
	})

	t.Run("assigned to someone else", func(t *testing.T) {
		order := Order{Status: OrderStatusPreparing, AssignedToID: &other}
		assert.False(t, order.AcceptableBy(agent))
		assert.False(t, order.AlreadyAcceptedBy(agent))
	})

	t.Run("terminal order stays terminal even for its own agent", func(t *testing.T) {
		for _, status := range []string{OrderStatusCancelled, OrderStatusDelivered} {
			order := Order{Status: status, AssignedToID: &agent}
			assert.False(t, order.AcceptableBy(agent),
				"accept must not resurrect a %s order", status)
			assert.False(t, order.AlreadyAcceptedBy(agent))
		}
	})
}

func TestOrderCanMarkDelivered(t *testing.T) {
	assert.True(t, (&Order{Status: OrderStatusOutForDelivery}).CanMarkDelivered())

	for _, status := range []string{
		OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusDelivered, OrderStatusCancelled,
	} {
		assert.False(t, (&Order{Status: status}).CanMarkDelivered(),
			"delivered should not be reachable from %s", status)
	}
}

func TestOrderPaymentDueOnDelivery(t *testing.T) {
	cod := Order{PaymentMethod: PaymentMethodCashOnDelivery, PaymentStatus: PaymentStatusPending}
	assert.True(t, cod.PaymentDueOnDelivery())

	codPaid := Order{PaymentMethod: PaymentMethodCashOnDelivery, PaymentStatus: PaymentStatusPaid}
	assert.False(t, codPaid.PaymentDueOnDelivery())

	card := Order{PaymentMethod: PaymentMethodCard, PaymentStatus: PaymentStatusPaid}
	assert.False(t, card.PaymentDueOnDelivery())
}

func TestOrderIsTerminal(t *testing.T) {
	assert.True(t, (&Order{Status: OrderStatusDelivered}).IsTerminal())
	assert.True(t, (&Order{Status: OrderStatusCancelled}).IsTerminal())
	assert.False(t, (&Order{Status: OrderStatusPending}).IsTerminal())
	assert.False(t, (&Order{Status: OrderStatusOutForDelivery}).IsTerminal())
}
