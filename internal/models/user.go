package models

import (
	"time"
)

// User roles.
const (
	RoleCustomer = "customer"
	RoleDelivery = "delivery"
	RoleAdmin    = "admin"
)

// User represents a customer, delivery agent, or admin account.
// Customers and admins authenticate with a password, delivery agents
// with a numeric PIN.
type User struct {
	BaseModel
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `gorm:"index" json:"email,omitempty"`
	Phone        string    `gorm:"uniqueIndex" json:"phone"`
	PasswordHash string    `json:"-"`
	PINHash      string    `json:"-"`
	Role         string    `gorm:"index;default:customer" json:"role"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	IsVerified   bool      `json:"is_verified"`
	PushToken    string    `json:"-"`
	Addresses    []Address `json:"addresses,omitempty"`
	Orders       []Order   `json:"orders,omitempty"`
}

// DisplayName returns the customer-facing name.
func (u *User) DisplayName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// SMSVerification keeps track of OTP codes sent to users.
type SMSVerification struct {
	BaseModel
	Phone     string     `gorm:"index" json:"phone"`
	Code      string     `json:"code"`
	ExpiresAt time.Time  `json:"expires_at"`
	Verified  bool       `json:"verified"`
	UsedAt    *time.Time `json:"used_at"`
}
