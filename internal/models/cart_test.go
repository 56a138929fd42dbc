package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCartTotals(t *testing.T) {
	cart := Cart{
		Items: []CartItem{
			{PriceAtTime: 500, Quantity: 2},
			{PriceAtTime: 250, Quantity: 1},
		},
	}

	assert.Equal(t, 1250.0, cart.Subtotal())
	assert.Equal(t, 3, cart.TotalItems())
	assert.Equal(t, 0.0, cart.Discount())
	assert.Equal(t, 1250.0, cart.FinalAmount())
}

func TestCartTotalsEmpty(t *testing.T) {
	var cart Cart
	assert.Equal(t, 0.0, cart.Subtotal())
	assert.Equal(t, 0, cart.TotalItems())
	assert.Equal(t, 0.0, cart.FinalAmount())
}

func TestCartWithPercentageCoupon(t *testing.T) {
	// Two items at 500 give a 1000 subtotal; 10% would be 100 but is
	// capped at 80, leaving 920.
	now := time.Now()
	cart := Cart{
		Items: []CartItem{{PriceAtTime: 500, Quantity: 2}},
		AppliedCoupon: &Coupon{
			Type:            CouponTypePercentage,
			Value:           10,
			MaximumDiscount: 80,
			ValidFrom:       now.Add(-time.Hour),
			ValidTo:         now.Add(time.Hour),
			IsActive:        true,
		},
	}

	assert.Equal(t, 1000.0, cart.Subtotal())
	assert.Equal(t, 80.0, cart.Discount())
	assert.Equal(t, 920.0, cart.FinalAmount())
}

func TestCartFinalAmountNeverNegative(t *testing.T) {
	cart := Cart{
		Items:         []CartItem{{PriceAtTime: 50, Quantity: 1}},
		AppliedCoupon: &Coupon{Type: CouponTypeFixed, Value: 200},
	}

	assert.Equal(t, 50.0, cart.Subtotal())
	assert.Equal(t, 200.0, cart.Discount())
	assert.Equal(t, 0.0, cart.FinalAmount())
}

func TestCartPriceLockIgnoresProductPrice(t *testing.T) {
	// The locked price drives totals even when the product record has a
	// newer price.
	cart := Cart{
		Items: []CartItem{{
			PriceAtTime: 400,
			Quantity:    2,
			Product:     &Product{Price: 999},
		}},
	}

	assert.Equal(t, 800.0, cart.Subtotal())
}
