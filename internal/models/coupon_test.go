package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCoupon() Coupon {
	now := time.Now()
	return Coupon{
		Code:              "MEAT10",
		Type:              CouponTypePercentage,
		Value:             10,
		MinimumOrderValue: 200,
		MaximumDiscount:   80,
		ValidFrom:         now.Add(-time.Hour),
		ValidTo:           now.Add(time.Hour),
		UsageLimit:        5,
		UsedCount:         0,
		IsActive:          true,
	}
}

func TestCouponValidate(t *testing.T) {
	now := time.Now()

	t.Run("ok", func(t *testing.T) {
		cp := validCoupon()
		require.NoError(t, cp.Validate(500, false, now))
	})

	t.Run("inactive", func(t *testing.T) {
		cp := validCoupon()
		cp.IsActive = false
		assert.ErrorIs(t, cp.Validate(500, false, now), ErrCouponInactive)
	})

	t.Run("not started", func(t *testing.T) {
		cp := validCoupon()
		cp.ValidFrom = now.Add(time.Hour)
		cp.ValidTo = now.Add(2 * time.Hour)
		assert.ErrorIs(t, cp.Validate(500, false, now), ErrCouponNotStarted)
	})

	t.Run("expired", func(t *testing.T) {
		cp := validCoupon()
		cp.ValidTo = now.Add(-time.Minute)
		assert.ErrorIs(t, cp.Validate(500, false, now), ErrCouponExpired)
	})

	t.Run("below minimum", func(t *testing.T) {
		cp := validCoupon()
		assert.ErrorIs(t, cp.Validate(199, false, now), ErrCouponMinimumOrder)
	})

	t.Run("global limit exhausted blocks a fresh user", func(t *testing.T) {
		cp := validCoupon()
		cp.UsedCount = cp.UsageLimit
		assert.ErrorIs(t, cp.Validate(500, false, now), ErrCouponLimitReached)
	})

	t.Run("per-user reuse blocked", func(t *testing.T) {
		cp := validCoupon()
		cp.UsedCount = 1
		assert.ErrorIs(t, cp.Validate(500, true, now), ErrCouponAlreadyUsed)
	})

	t.Run("zero usage limit is unlimited", func(t *testing.T) {
		cp := validCoupon()
		cp.UsageLimit = 0
		cp.UsedCount = 1000
		require.NoError(t, cp.Validate(500, false, now))
	})
}

func TestCouponDiscountFor(t *testing.T) {
	cp := validCoupon()

	// 10% of 1000 would be 100, capped at 80.
	assert.Equal(t, 80.0, cp.DiscountFor(1000))
	assert.Equal(t, 50.0, cp.DiscountFor(500))

	cp.MaximumDiscount = 0
	assert.Equal(t, 100.0, cp.DiscountFor(1000))

	fixed := Coupon{Type: CouponTypeFixed, Value: 150}
	assert.Equal(t, 150.0, fixed.DiscountFor(1000))
	assert.Equal(t, 150.0, fixed.DiscountFor(100))

	unknown := Coupon{Type: "bogus", Value: 50}
	assert.Equal(t, 0.0, unknown.DiscountFor(1000))
}

func TestCouponValidTypeAndValue(t *testing.T) {
	assert.True(t, (&Coupon{Type: CouponTypePercentage, Value: 10}).ValidTypeAndValue())
	assert.True(t, (&Coupon{Type: CouponTypeFixed, Value: 500}).ValidTypeAndValue())
	assert.False(t, (&Coupon{Type: CouponTypePercentage, Value: 120}).ValidTypeAndValue())
	assert.False(t, (&Coupon{Type: CouponTypeFixed, Value: 0}).ValidTypeAndValue())
	assert.False(t, (&Coupon{Type: "bogus", Value: 10}).ValidTypeAndValue())
}

func TestCouponRetypeRechecksValue(t *testing.T) {
	// A fixed coupon worth 150 is fine, but the same definition re-typed
	// to percentage is not.
	cp := Coupon{Type: CouponTypeFixed, Value: 150}
	assert.True(t, cp.ValidTypeAndValue())

	cp.Type = CouponTypePercentage
	assert.False(t, cp.ValidTypeAndValue())
}
