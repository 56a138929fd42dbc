package models

import (
	"github.com/google/uuid"
)

// Notification types.
const (
	NotificationTypeOrder  = "order"
	NotificationTypeCoupon = "coupon"
	NotificationTypeSystem = "system"
)

// Notification priorities.
const (
	NotificationPriorityLow    = "low"
	NotificationPriorityNormal = "normal"
	NotificationPriorityHigh   = "high"
)

// Notification is an in-app message created as a side effect of order and
// coupon state changes. Metadata is a JSON bag keyed by use case.
type Notification struct {
	BaseModel
	UserID   uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Title    string    `json:"title"`
	Message  string    `json:"message"`
	Type     string    `json:"type"`
	Priority string    `json:"priority"`
	Metadata string    `json:"metadata,omitempty"`
	IsRead   bool      `json:"is_read"`
	IsActive bool      `gorm:"default:true" json:"is_active"`
}
