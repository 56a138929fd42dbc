package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/freshcut/internal/middleware"
	"github.com/example/freshcut/internal/models"
)

// CartHandler manages the per-user cart.
type CartHandler struct {
	db *gorm.DB
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(db *gorm.DB) *CartHandler {
	return &CartHandler{db: db}
}

// loadCart fetches the user's cart with items and coupon, creating it on
// first access.
func (h *CartHandler) loadCart(userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := h.db.Preload("Items.Product").Preload("AppliedCoupon").
		Where("user_id = ?", userID).First(&cart).Error
	if err == gorm.ErrRecordNotFound {
		cart = models.Cart{UserID: userID}
		if err := h.db.Create(&cart).Error; err != nil {
			return nil, err
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func cartResponse(cart *models.Cart) fiber.Map {
	return fiber.Map{
		"cart":         cart,
		"total_items":  cart.TotalItems(),
		"subtotal":     cart.Subtotal(),
		"discount":     cart.Discount(),
		"final_amount": cart.FinalAmount(),
	}
}

// GetCart returns the user's cart, creating it lazily.
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	cart, err := h.loadCart(userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": cartResponse(cart)})
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// AddItem adds a product to the cart, locking the current effective price.
// Adding a product already in the cart merges quantities.
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req addItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Quantity <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "quantity must be positive")
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", productID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	if !product.IsActive {
		return fiber.NewError(fiber.StatusBadRequest, "product is no longer available")
	}
	if !product.InStock {
		return fiber.NewError(fiber.StatusBadRequest, "product is out of stock")
	}

	cart, err := h.loadCart(userID)
	if err != nil {
		return err
	}

	var existing models.CartItem
	err = h.db.Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&existing).Error
	switch {
	case err == nil:
		if err := h.db.Model(&existing).
			Update("quantity", existing.Quantity+req.Quantity).Error; err != nil {
			return err
		}
	case err == gorm.ErrRecordNotFound:
		item := models.CartItem{
			CartID:      cart.ID,
			ProductID:   productID,
			Quantity:    req.Quantity,
			PriceAtTime: product.EffectivePrice(),
		}
		if err := h.db.Create(&item).Error; err != nil {
			return err
		}
	default:
		return err
	}

	cart, err = h.loadCart(userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": cartResponse(cart)})
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateItem sets the quantity of a cart line.
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	productID, err := uuid.Parse(c.Params("productId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	var req updateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Quantity <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "quantity must be positive")
	}

	cart, err := h.loadCart(userID)
	if err != nil {
		return err
	}

	result := h.db.Model(&models.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cart.ID, productID).
		Update("quantity", req.Quantity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "item not in cart")
	}

	cart, err = h.loadCart(userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": cartResponse(cart)})
}

// RemoveItem deletes a cart line.
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	productID, err := uuid.Parse(c.Params("productId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	cart, err := h.loadCart(userID)
	if err != nil {
		return err
	}

	result := h.db.Where("cart_id = ? AND product_id = ?", cart.ID, productID).
		Delete(&models.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "item not in cart")
	}

	cart, err = h.loadCart(userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": cartResponse(cart)})
}

// ClearCart removes all items and detaches any applied coupon.
func (h *CartHandler) ClearCart(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	cart, err := h.loadCart(userID)
	if err != nil {
		return err
	}

	if err := h.db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}

	if err := h.db.Model(cart).Update("applied_coupon_id", nil).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "cart cleared"})
}

type applyCouponRequest struct {
	Code string `json:"code"`
}

// ApplyCoupon validates a coupon against the cart subtotal and attaches it.
func (h *CartHandler) ApplyCoupon(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req applyCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "coupon code is required")
	}

	cart, err := h.loadCart(userID)
	if err != nil {
		return err
	}

	if len(cart.Items) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "cart is empty")
	}

	coupon, err := findCouponForUser(h.db, code, userID, cart.Subtotal())
	if err != nil {
		return err
	}

	if err := h.db.Model(cart).Update("applied_coupon_id", coupon.ID).Error; err != nil {
		return err
	}

	cart, err = h.loadCart(userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": cartResponse(cart)})
}

// RemoveCoupon detaches the applied coupon.
func (h *CartHandler) RemoveCoupon(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	cart, err := h.loadCart(userID)
	if err != nil {
		return err
	}

	if err := h.db.Model(cart).Update("applied_coupon_id", nil).Error; err != nil {
		return err
	}

	cart, err = h.loadCart(userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": cartResponse(cart)})
}
