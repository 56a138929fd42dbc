package models

import (
	"github.com/google/uuid"

	"github.com/example/freshcut/internal/pricing"
)

// Cart is the single mutable cart a user owns. It is created lazily on
// first read and cleared after checkout.
type Cart struct {
	BaseModel
	UserID          uuid.UUID  `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	Items           []CartItem `json:"items,omitempty"`
	AppliedCouponID *uuid.UUID `gorm:"type:uuid" json:"applied_coupon_id"`
	AppliedCoupon   *Coupon    `json:"applied_coupon,omitempty"`
}

// CartItem references a product with the price locked at the moment it was
// added. PriceAtTime is never recomputed when the product price changes.
type CartItem struct {
	BaseModel
	CartID      uuid.UUID `gorm:"type:uuid;index" json:"cart_id"`
	ProductID   uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	Product     *Product  `json:"product,omitempty"`
	Quantity    int       `json:"quantity"`
	PriceAtTime float64   `json:"price_at_time"`
}

// Subtotal sums price_at_time * quantity over all items.
func (c *Cart) Subtotal() float64 {
	lines := make([]pricing.Line, 0, len(c.Items))
	for _, item := range c.Items {
		lines = append(lines, pricing.Line{UnitPrice: item.PriceAtTime, Quantity: item.Quantity})
	}
	return pricing.Subtotal(lines)
}

// TotalItems sums item quantities.
func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// Discount returns the applied coupon's discount against the current
// subtotal, zero when no coupon is attached.
func (c *Cart) Discount() float64 {
	if c.AppliedCoupon == nil {
		return 0
	}
	return c.AppliedCoupon.DiscountFor(c.Subtotal())
}

// FinalAmount is subtotal minus discount, never negative.
func (c *Cart) FinalAmount() float64 {
	return pricing.FinalAmount(c.Subtotal(), c.Discount())
}
