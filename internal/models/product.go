package models

import (
	"github.com/lib/pq"
)

// Product categories.
const (
	CategoryPremium   = "premium"
	CategoryNormal    = "normal"
	CategoryExclusive = "exclusive"
)

// ValidCategory reports whether the given category is one of the known values.
func ValidCategory(category string) bool {
	switch category {
	case CategoryPremium, CategoryNormal, CategoryExclusive:
		return true
	}
	return false
}

// Product is a catalog item. Removal is a soft delete via IsActive.
type Product struct {
	BaseModel
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	Price           float64        `json:"price"`
	DiscountedPrice float64        `json:"discounted_price"`
	Category        string         `gorm:"index" json:"category"`
	Subcategory     string         `json:"subcategory"`
	Images          pq.StringArray `gorm:"type:text[]" json:"images"`
	InStock         bool           `gorm:"default:true" json:"in_stock"`
	Quantity        int            `json:"quantity"`
	WeightValue     float64        `json:"weight_value"`
	WeightUnit      string         `json:"weight_unit"`
	IsActive        bool           `gorm:"default:true" json:"is_active"`
}

// EffectivePrice is the price a new cart item is locked at: the discounted
// price when one is set below the base price, the base price otherwise.
func (p *Product) EffectivePrice() float64 {
	if p.DiscountedPrice > 0 && p.DiscountedPrice < p.Price {
		return p.DiscountedPrice
	}
	return p.Price
}
