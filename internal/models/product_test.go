package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductEffectivePrice(t *testing.T) {
	assert.Equal(t, 450.0, (&Product{Price: 500, DiscountedPrice: 450}).EffectivePrice())
	assert.Equal(t, 500.0, (&Product{Price: 500}).EffectivePrice())
	// A discounted price at or above the base price is ignored.
	assert.Equal(t, 500.0, (&Product{Price: 500, DiscountedPrice: 600}).EffectivePrice())
}

func TestValidCategory(t *testing.T) {
	assert.True(t, ValidCategory(CategoryPremium))
	assert.True(t, ValidCategory(CategoryNormal))
	assert.True(t, ValidCategory(CategoryExclusive))
	assert.False(t, ValidCategory("frozen"))
	assert.False(t, ValidCategory(""))
}
