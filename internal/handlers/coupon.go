package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/freshcut/internal/middleware"
	"github.com/example/freshcut/internal/models"
	"github.com/example/freshcut/internal/services"
	"github.com/example/freshcut/internal/utils"
)

// CouponHandler manages coupon endpoints.
type CouponHandler struct {
	db       *gorm.DB
	notifier *services.Notifier
}

// NewCouponHandler constructs CouponHandler.
func NewCouponHandler(db *gorm.DB, notifier *services.Notifier) *CouponHandler {
	return &CouponHandler{db: db, notifier: notifier}
}

// findCouponForUser loads a coupon by code and validates it for the given
// user and order amount. Both cart-apply and checkout go through this so
// the validation rule lives in one place.
func findCouponForUser(db *gorm.DB, code string, userID uuid.UUID, orderAmount float64) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := db.Where("code = ?", code).First(&coupon).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(fiber.StatusNotFound, "coupon not found")
		}
		return nil, err
	}

	var redeemed int64
	if err := db.Model(&models.CouponRedemption{}).
		Where("coupon_id = ? AND user_id = ?", coupon.ID, userID).
		Count(&redeemed).Error; err != nil {
		return nil, err
	}

	if err := coupon.Validate(orderAmount, redeemed > 0, time.Now()); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return &coupon, nil
}

// ListActive returns active, currently valid coupons for the app.
func (h *CouponHandler) ListActive(c *fiber.Ctx) error {
	now := time.Now()
	var coupons []models.Coupon
	if err := h.db.
		Where("is_active = ? AND valid_from <= ? AND valid_to >= ?", true, now, now).
		Order("valid_to asc").
		Find(&coupons).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": coupons})
}

type validateCouponRequest struct {
	Code        string  `json:"code"`
	OrderAmount float64 `json:"order_amount"`
}

// ValidateCoupon previews the discount a coupon yields for an order amount.
func (h *CouponHandler) ValidateCoupon(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req validateCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "coupon code is required")
	}

	coupon, err := findCouponForUser(h.db, code, userID, req.OrderAmount)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"code":     coupon.Code,
			"type":     coupon.Type,
			"discount": coupon.DiscountFor(req.OrderAmount),
		},
	})
}

// ListAll returns every coupon for the admin dashboard.
func (h *CouponHandler) ListAll(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Coupon{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var coupons []models.Coupon
	if err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&coupons).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    coupons,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

type couponRequest struct {
	Code              string     `json:"code"`
	Type              string     `json:"type"`
	Value             float64    `json:"value"`
	MinimumOrderValue float64    `json:"minimum_order_value"`
	MaximumDiscount   float64    `json:"maximum_discount"`
	ValidFrom         *time.Time `json:"valid_from"`
	ValidTo           *time.Time `json:"valid_to"`
	UsageLimit        int        `json:"usage_limit"`
	IsActive          *bool      `json:"is_active"`
}

// CreateCoupon adds a coupon and announces it to active customers.
func (h *CouponHandler) CreateCoupon(c *fiber.Ctx) error {
	var req couponRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "coupon code is required")
	}
	if req.ValidFrom == nil || req.ValidTo == nil || req.ValidTo.Before(*req.ValidFrom) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid validity window")
	}

	coupon := models.Coupon{
		Code:              code,
		Type:              req.Type,
		Value:             req.Value,
		MinimumOrderValue: req.MinimumOrderValue,
		MaximumDiscount:   req.MaximumDiscount,
		ValidFrom:         *req.ValidFrom,
		ValidTo:           *req.ValidTo,
		UsageLimit:        req.UsageLimit,
		IsActive:          true,
	}

	if !coupon.ValidTypeAndValue() {
		return fiber.NewError(fiber.StatusBadRequest, "invalid coupon type or value")
	}

	var existing models.Coupon
	if err := h.db.Where("code = ?", code).First(&existing).Error; err == nil {
		return fiber.NewError(fiber.StatusConflict, "coupon code already exists")
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	if err := h.db.Create(&coupon).Error; err != nil {
		return err
	}

	go h.notifier.CouponCreated(coupon)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": coupon})
}

// UpdateCoupon edits coupon fields.
func (h *CouponHandler) UpdateCoupon(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var coupon models.Coupon
	if err := h.db.First(&coupon, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "coupon not found")
		}
		return err
	}

	var req couponRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	// the discount definition is re-checked as it would read after the
	// update, so re-typing a fixed coupon to percentage catches values
	// over 100
	merged := coupon
	if req.Type != "" {
		merged.Type = req.Type
	}
	if req.Value > 0 {
		merged.Value = req.Value
	}
	if !merged.ValidTypeAndValue() {
		return fiber.NewError(fiber.StatusBadRequest, "invalid coupon type or value")
	}

	updates := map[string]interface{}{}
	if req.Type != "" {
		updates["type"] = req.Type
	}
	if req.Value > 0 {
		updates["value"] = req.Value
	}
	if req.MinimumOrderValue >= 0 {
		updates["minimum_order_value"] = req.MinimumOrderValue
	}
	if req.MaximumDiscount >= 0 {
		updates["maximum_discount"] = req.MaximumDiscount
	}
	if req.ValidFrom != nil {
		updates["valid_from"] = *req.ValidFrom
	}
	if req.ValidTo != nil {
		updates["valid_to"] = *req.ValidTo
	}
	if req.UsageLimit >= 0 {
		updates["usage_limit"] = req.UsageLimit
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	if err := h.db.Model(&coupon).Updates(updates).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "coupon updated"})
}

// DeleteCoupon deactivates a coupon.
func (h *CouponHandler) DeleteCoupon(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	result := h.db.Model(&models.Coupon{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "coupon not found")
	}

	return c.JSON(fiber.Map{"success": true, "message": "coupon deactivated"})
}
