package handlers

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/freshcut/internal/middleware"
	"github.com/example/freshcut/internal/models"
	"github.com/example/freshcut/internal/pricing"
	"github.com/example/freshcut/internal/services"
	"github.com/example/freshcut/internal/utils"
)

// OrderHandler manages customer order endpoints.
type OrderHandler struct {
	db       *gorm.DB
	notifier *services.Notifier
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB, notifier *services.Notifier) *OrderHandler {
	return &OrderHandler{db: db, notifier: notifier}
}

// appendStatus writes one entry to the append-only status history. History
// write failures are logged, never surfaced.
func appendStatus(db *gorm.DB, orderID uuid.UUID, status, notes string) {
	entry := models.OrderStatusEntry{OrderID: orderID, Status: status, Notes: notes}
	if err := db.Create(&entry).Error; err != nil {
		log.Printf("[Order] Failed to append status history for %s: %v", orderID, err)
	}
}

type checkoutAddressRequest struct {
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zip_code"`
	Country  string `json:"country"`
	Landmark string `json:"landmark"`
}

type createOrderRequest struct {
	AddressID     string                 `json:"address_id"`
	Address       checkoutAddressRequest `json:"address"`
	ContactName   string                 `json:"contact_name"`
	ContactPhone  string                 `json:"contact_phone"`
	PaymentMethod string                 `json:"payment_method"`
}

// CreateOrder performs checkout: it snapshots the cart into an immutable
// order, recomputing line prices from the live catalog, applies the cart's
// coupon, marks the coupon used, clears the cart, and fires notifications.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	switch req.PaymentMethod {
	case models.PaymentMethodCashOnDelivery, models.PaymentMethodCard, models.PaymentMethodOnline:
	default:
		return fiber.NewError(fiber.StatusBadRequest, "invalid payment method")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return err
	}

	var cart models.Cart
	if err := h.db.Preload("Items.Product").Preload("AppliedCoupon").
		Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusBadRequest, "cart is empty")
		}
		return err
	}
	if len(cart.Items) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "cart is empty")
	}

	order := models.Order{
		UserID:        userID,
		OrderNumber:   generateOrderNumber(),
		PlacedAt:      time.Now(),
		Status:        models.OrderStatusPending,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: models.PaymentStatusPaid,
		ContactName:   req.ContactName,
		ContactPhone:  req.ContactPhone,
	}

	if req.PaymentMethod == models.PaymentMethodCashOnDelivery {
		order.PaymentStatus = models.PaymentStatusPending
	}

	if order.ContactName == "" {
		order.ContactName = user.DisplayName()
	}
	if order.ContactPhone == "" {
		order.ContactPhone = user.Phone
	}

	if err := h.resolveDeliveryAddress(&order, userID, req); err != nil {
		return err
	}

	// Checkout prices come from the live catalog, not the cart's locked
	// price_at_time. Items whose product has since disappeared fall back to
	// the locked price.
	var lines []pricing.Line
	for _, item := range cart.Items {
		unitPrice := item.PriceAtTime
		name := ""
		image := ""
		var productID *uuid.UUID

		if item.Product != nil {
			unitPrice = item.Product.EffectivePrice()
			name = item.Product.Name
			if len(item.Product.Images) > 0 {
				image = item.Product.Images[0]
			}
			id := item.Product.ID
			productID = &id
		}

		lineTotal, _ := pricing.LineTotal(unitPrice, item.Quantity).Round(2).Float64()
		order.Items = append(order.Items, models.OrderItem{
			ProductID:    productID,
			ProductName:  name,
			ProductImage: image,
			Quantity:     item.Quantity,
			UnitPrice:    unitPrice,
			LineTotal:    lineTotal,
		})
		lines = append(lines, pricing.Line{UnitPrice: unitPrice, Quantity: item.Quantity})
	}

	order.Subtotal = pricing.Subtotal(lines)
	order.DeliveryFee = 0
	order.Tax = 0

	// The cart's coupon is revalidated at checkout; a coupon that went
	// invalid since it was applied is dropped rather than failing the order.
	var coupon *models.Coupon
	if cart.AppliedCoupon != nil {
		if validated, err := findCouponForUser(h.db, cart.AppliedCoupon.Code, userID, order.Subtotal); err == nil {
			coupon = validated
			order.AppliedCouponID = &validated.ID
			order.Discount = validated.DiscountFor(order.Subtotal)
		} else {
			log.Printf("[Order] Coupon %s dropped at checkout: %v", cart.AppliedCoupon.Code, err)
		}
	}

	order.TotalAmount = pricing.FinalAmount(order.Subtotal, order.Discount)
	order.StatusHistory = []models.OrderStatusEntry{
		{Status: models.OrderStatusPending, Notes: "order placed"},
	}

	if err := h.db.Create(&order).Error; err != nil {
		return err
	}

	if coupon != nil {
		h.markCouponUsed(coupon, userID)
	}

	if err := h.db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		log.Printf("[Order] Failed to clear cart for %s: %v", userID, err)
	}
	if err := h.db.Model(&cart).Update("applied_coupon_id", nil).Error; err != nil {
		log.Printf("[Order] Failed to detach cart coupon for %s: %v", userID, err)
	}

	go h.notifier.OrderPlaced(order, user)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":             order.ID,
			"order_number":   order.OrderNumber,
			"status":         order.Status,
			"placed_at":      order.PlacedAt,
			"subtotal":       order.Subtotal,
			"discount":       order.Discount,
			"total":          order.TotalAmount,
			"payment_status": order.PaymentStatus,
		},
	})
}

func (h *OrderHandler) resolveDeliveryAddress(order *models.Order, userID uuid.UUID, req createOrderRequest) error {
	if req.AddressID != "" {
		id, err := uuid.Parse(req.AddressID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid address id")
		}

		var address models.Address
		if err := h.db.First(&address, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fiber.NewError(fiber.StatusNotFound, "address not found")
			}
			return err
		}

		order.DeliveryStreet = address.Street
		order.DeliveryCity = address.City
		order.DeliveryState = address.State
		order.DeliveryZipCode = address.ZipCode
		order.DeliveryCountry = address.Country
		order.DeliveryLandmark = address.Landmark
		return nil
	}

	if req.Address.Street == "" || req.Address.City == "" {
		return fiber.NewError(fiber.StatusBadRequest, "delivery address is required")
	}

	order.DeliveryStreet = req.Address.Street
	order.DeliveryCity = req.Address.City
	order.DeliveryState = req.Address.State
	order.DeliveryZipCode = req.Address.ZipCode
	order.DeliveryCountry = req.Address.Country
	order.DeliveryLandmark = req.Address.Landmark
	return nil
}

// markCouponUsed increments the global redemption count and records the
// user in the redemption log if absent.
func (h *OrderHandler) markCouponUsed(coupon *models.Coupon, userID uuid.UUID) {
	if err := h.db.Model(coupon).
		Update("used_count", gorm.Expr("used_count + 1")).Error; err != nil {
		log.Printf("[Order] Failed to increment coupon %s usage: %v", coupon.Code, err)
	}

	var redeemed int64
	if err := h.db.Model(&models.CouponRedemption{}).
		Where("coupon_id = ? AND user_id = ?", coupon.ID, userID).
		Count(&redeemed).Error; err != nil {
		log.Printf("[Order] Failed to check coupon %s redemption: %v", coupon.Code, err)
		return
	}
	if redeemed > 0 {
		return
	}

	redemption := models.CouponRedemption{CouponID: coupon.ID, UserID: userID}
	if err := h.db.Create(&redemption).Error; err != nil {
		log.Printf("[Order] Failed to record coupon %s redemption: %v", coupon.Code, err)
	}
}

// ListOrders returns orders for the authenticated user.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	query := h.db.Where("user_id = ?", userID).Model(&models.Order{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("placed_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetOrder returns a single order for the authenticated user.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc")
		}).
		First(&order, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

// CancelOrder cancels the caller's order unless it is already delivered or
// cancelled.
func (h *OrderHandler) CancelOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req cancelOrderRequest
	_ = c.BodyParser(&req)

	var order models.Order
	if err := h.db.First(&order, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	if !order.CanCancel() {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("order cannot be cancelled in status %q", order.Status))
	}

	if err := h.db.Model(&order).Update("status", models.OrderStatusCancelled).Error; err != nil {
		return err
	}

	notes := req.Reason
	if notes == "" {
		notes = "cancelled by customer"
	}
	appendStatus(h.db, order.ID, models.OrderStatusCancelled, notes)

	order.Status = models.OrderStatusCancelled
	go h.notifier.OrderStatusChanged(order, "")

	return c.JSON(fiber.Map{"success": true, "message": "order cancelled"})
}

func generateOrderNumber() string {
	return fmt.Sprintf("FC-%d", time.Now().UnixNano()%1000000000)
}
