package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubtotal(t *testing.T) {
	lines := []Line{
		{UnitPrice: 500, Quantity: 2},
		{UnitPrice: 120.50, Quantity: 3},
	}
	assert.Equal(t, 1361.50, Subtotal(lines))
}

func TestSubtotalEmpty(t *testing.T) {
	assert.Equal(t, 0.0, Subtotal(nil))
}

func TestSubtotalAvoidsFloatDrift(t *testing.T) {
	// 0.1*3 is 0.30000000000000004 in raw float math.
	lines := []Line{{UnitPrice: 0.1, Quantity: 3}}
	assert.Equal(t, 0.3, Subtotal(lines))
}

func TestPercentageDiscount(t *testing.T) {
	assert.Equal(t, 100.0, PercentageDiscount(1000, 10, 0))
	assert.Equal(t, 80.0, PercentageDiscount(1000, 10, 80))
	assert.Equal(t, 50.0, PercentageDiscount(1000, 5, 80))
}

func TestFinalAmount(t *testing.T) {
	assert.Equal(t, 920.0, FinalAmount(1000, 80))
	assert.Equal(t, 0.0, FinalAmount(100, 150))
	assert.Equal(t, 0.0, FinalAmount(100, 100))
}
