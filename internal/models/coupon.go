package models

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/example/freshcut/internal/pricing"
)

// Coupon discount types.
const (
	CouponTypePercentage = "percentage"
	CouponTypeFixed      = "fixed"
)

// Coupon validation errors, surfaced to clients as 400 messages.
var (
	ErrCouponInactive     = errors.New("coupon is not active")
	ErrCouponNotStarted   = errors.New("coupon is not yet valid")
	ErrCouponExpired      = errors.New("coupon has expired")
	ErrCouponMinimumOrder = errors.New("order amount is below the coupon minimum")
	ErrCouponLimitReached = errors.New("coupon usage limit reached")
	ErrCouponAlreadyUsed  = errors.New("coupon already used")
)

// Coupon is an admin-managed discount code. Codes are stored uppercase.
type Coupon struct {
	BaseModel
	Code              string             `gorm:"uniqueIndex" json:"code"`
	Type              string             `json:"type"`
	Value             float64            `json:"value"`
	MinimumOrderValue float64            `json:"minimum_order_value"`
	MaximumDiscount   float64            `json:"maximum_discount"`
	ValidFrom         time.Time          `json:"valid_from"`
	ValidTo           time.Time          `json:"valid_to"`
	UsageLimit        int                `json:"usage_limit"`
	UsedCount         int                `json:"used_count"`
	Redemptions       []CouponRedemption `json:"-"`
	IsActive          bool               `gorm:"default:true" json:"is_active"`
}

// CouponRedemption records that a user has redeemed a coupon once.
type CouponRedemption struct {
	BaseModel
	CouponID uuid.UUID `gorm:"type:uuid;index" json:"coupon_id"`
	UserID   uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
}

// ValidTypeAndValue checks the admin-supplied discount definition.
func (cp *Coupon) ValidTypeAndValue() bool {
	if cp.Value <= 0 {
		return false
	}
	switch cp.Type {
	case CouponTypeFixed:
		return true
	case CouponTypePercentage:
		return cp.Value <= 100
	}
	return false
}

// Validate checks whether the coupon can be redeemed at the given time for
// the given order amount. hasRedeemed is whether the calling user already
// appears in the redemption log; the global usage limit is checked
// independently of per-user history.
func (cp *Coupon) Validate(orderAmount float64, hasRedeemed bool, at time.Time) error {
	if !cp.IsActive {
		return ErrCouponInactive
	}
	if at.Before(cp.ValidFrom) {
		return ErrCouponNotStarted
	}
	if at.After(cp.ValidTo) {
		return ErrCouponExpired
	}
	if orderAmount < cp.MinimumOrderValue {
		return ErrCouponMinimumOrder
	}
	if cp.UsageLimit > 0 && cp.UsedCount >= cp.UsageLimit {
		return ErrCouponLimitReached
	}
	if hasRedeemed {
		return ErrCouponAlreadyUsed
	}
	return nil
}

// DiscountFor computes the discount amount against a subtotal: the flat
// value for fixed coupons, a percentage capped at MaximumDiscount for
// percentage coupons.
func (cp *Coupon) DiscountFor(subtotal float64) float64 {
	switch cp.Type {
	case CouponTypePercentage:
		return pricing.PercentageDiscount(subtotal, cp.Value, cp.MaximumDiscount)
	case CouponTypeFixed:
		return cp.Value
	}
	return 0
}
