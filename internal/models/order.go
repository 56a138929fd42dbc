package models

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses.
const (
	OrderStatusPending        = "pending"
	OrderStatusConfirmed      = "confirmed"
	OrderStatusPreparing      = "preparing"
	OrderStatusOutForDelivery = "out-for-delivery"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
)

// Payment methods and statuses.
const (
	PaymentMethodCashOnDelivery = "cash-on-delivery"
	PaymentMethodCard           = "card"
	PaymentMethodOnline         = "online"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// Order is an immutable snapshot of a cart taken at checkout. Status,
// assignment, and payment status change over its lifecycle; items never do.
type Order struct {
	BaseModel
	OrderNumber      string             `gorm:"uniqueIndex" json:"order_number"`
	UserID           uuid.UUID          `gorm:"type:uuid;index" json:"user_id"`
	User             *User              `json:"user,omitempty"`
	PlacedAt         time.Time          `json:"placed_at"`
	Items            []OrderItem        `json:"items,omitempty"`
	ContactName      string             `json:"contact_name"`
	ContactPhone     string             `json:"contact_phone"`
	DeliveryStreet   string             `json:"delivery_street"`
	DeliveryCity     string             `json:"delivery_city"`
	DeliveryState    string             `json:"delivery_state"`
	DeliveryZipCode  string             `json:"delivery_zip_code"`
	DeliveryCountry  string             `json:"delivery_country"`
	DeliveryLandmark string             `json:"delivery_landmark"`
	Subtotal         float64            `json:"subtotal"`
	Discount         float64            `json:"discount"`
	DeliveryFee      float64            `json:"delivery_fee"`
	Tax              float64            `json:"tax"`
	TotalAmount      float64            `json:"total_amount"`
	AppliedCouponID  *uuid.UUID         `gorm:"type:uuid" json:"applied_coupon_id"`
	PaymentMethod    string             `json:"payment_method"`
	PaymentStatus    string             `json:"payment_status"`
	Status           string             `gorm:"index" json:"status"`
	StatusHistory    []OrderStatusEntry `json:"status_history,omitempty"`
	AssignedToID     *uuid.UUID         `gorm:"type:uuid;index" json:"assigned_to_id"`
	AssignedTo       *User              `json:"assigned_to,omitempty"`
}

// OrderItem is a point-in-time copy of a product line. Product fields are
// denormalized so later catalog edits never change past orders.
type OrderItem struct {
	BaseModel
	OrderID      uuid.UUID  `gorm:"type:uuid;index" json:"order_id"`
	ProductID    *uuid.UUID `gorm:"type:uuid" json:"product_id"`
	ProductName  string     `json:"product_name"`
	ProductImage string     `json:"product_image"`
	Quantity     int        `json:"quantity"`
	UnitPrice    float64    `json:"unit_price"`
	LineTotal    float64    `json:"line_total"`
}

// OrderStatusEntry is one record in the append-only status audit log.
type OrderStatusEntry struct {
	BaseModel
	OrderID uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	Status  string    `json:"status"`
	Notes   string    `json:"notes"`
}

// IsTerminal reports whether no further lifecycle transitions apply.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusCancelled
}

// CanCancel reports whether the customer may still cancel.
func (o *Order) CanCancel() bool {
	return !o.IsTerminal()
}

// AcceptableBy reports whether the given delivery agent may accept this
// order. Re-accepting an order already assigned to the same agent is an
// idempotent success. Terminal orders are never acceptable, assigned or
// not: a cancelled or delivered order must stay that way.
func (o *Order) AcceptableBy(agentID uuid.UUID) bool {
	if o.IsTerminal() {
		return false
	}
	if o.AssignedToID != nil {
		return *o.AssignedToID == agentID
	}
	return o.Status == OrderStatusConfirmed || o.Status == OrderStatusPreparing
}

// AlreadyAcceptedBy reports whether accept by this agent is a no-op.
func (o *Order) AlreadyAcceptedBy(agentID uuid.UUID) bool {
	return o.AssignedToID != nil && *o.AssignedToID == agentID &&
		o.Status == OrderStatusOutForDelivery
}

// CanMarkDelivered reports whether the delivery endpoint may move the order
// to delivered: only from out-for-delivery.
func (o *Order) CanMarkDelivered() bool {
	return o.Status == OrderStatusOutForDelivery
}

// PaymentDueOnDelivery reports whether delivering this order collects the
// payment: cash-on-delivery orders still pending flip to paid at the door.
func (o *Order) PaymentDueOnDelivery() bool {
	return o.PaymentMethod == PaymentMethodCashOnDelivery &&
		o.PaymentStatus == PaymentStatusPending
}
