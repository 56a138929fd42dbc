package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/freshcut/internal/middleware"
	"github.com/example/freshcut/internal/models"
	"github.com/example/freshcut/internal/services"
	"github.com/example/freshcut/internal/utils"
)

// DeliveryHandler manages the delivery-agent order endpoints.
type DeliveryHandler struct {
	db       *gorm.DB
	notifier *services.Notifier
}

// NewDeliveryHandler constructs DeliveryHandler.
func NewDeliveryHandler(db *gorm.DB, notifier *services.Notifier) *DeliveryHandler {
	return &DeliveryHandler{db: db, notifier: notifier}
}

// ListAvailable returns unassigned orders ready for pickup.
func (h *DeliveryHandler) ListAvailable(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{}).
		Where("status IN ? AND assigned_to_id IS NULL",
			[]string{models.OrderStatusConfirmed, models.OrderStatusPreparing})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("placed_at asc").
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

// ListMine returns orders assigned to the calling agent.
func (h *DeliveryHandler) ListMine(c *fiber.Ctx) error {
	agentID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{}).Where("assigned_to_id = ?", agentID)

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

// AcceptOrder lets an agent claim an unassigned confirmed/preparing order.
// Accepting an order already assigned to the caller is an idempotent
// success.
func (h *DeliveryHandler) AcceptOrder(c *fiber.Ctx) error {
	agentID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	if order.AlreadyAcceptedBy(agentID) {
		return c.JSON(fiber.Map{"success": true, "data": order})
	}

	if !order.AcceptableBy(agentID) {
		if order.AssignedToID != nil {
			return fiber.NewError(fiber.StatusConflict, "order is assigned to another agent")
		}
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("order cannot be accepted in status %q", order.Status))
	}

	var agent models.User
	if err := h.db.First(&agent, "id = ?", agentID).Error; err != nil {
		return err
	}

	if err := h.db.Model(&order).Updates(map[string]interface{}{
		"assigned_to_id": agentID,
		"status":         models.OrderStatusOutForDelivery,
	}).Error; err != nil {
		return err
	}

	appendStatus(h.db, order.ID, models.OrderStatusOutForDelivery,
		fmt.Sprintf("accepted by %s", agent.DisplayName()))

	order.AssignedToID = &agentID
	order.Status = models.OrderStatusOutForDelivery
	go h.notifier.OrderAssigned(order, agent)

	return c.JSON(fiber.Map{"success": true, "data": order})
}

type deliveryStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// UpdateStatus lets the assigned agent mark an out-for-delivery order as
// delivered. No other transition is allowed on this endpoint. Delivering a
// cash-on-delivery order also marks it paid.
func (h *DeliveryHandler) UpdateStatus(c *fiber.Ctx) error {
	agentID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req deliveryStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Status != models.OrderStatusDelivered {
		return fiber.NewError(fiber.StatusBadRequest, "only delivered is allowed")
	}

	var order models.Order
	if err := h.db.First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	if order.AssignedToID == nil || *order.AssignedToID != agentID {
		return fiber.NewError(fiber.StatusForbidden, "order is not assigned to you")
	}

	if !order.CanMarkDelivered() {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("order cannot be delivered from status %q", order.Status))
	}

	updates := map[string]interface{}{"status": models.OrderStatusDelivered}
	if order.PaymentDueOnDelivery() {
		updates["payment_status"] = models.PaymentStatusPaid
	}

	if err := h.db.Model(&order).Updates(updates).Error; err != nil {
		return err
	}

	notes := req.Notes
	if notes == "" {
		notes = "delivered"
	}
	appendStatus(h.db, order.ID, models.OrderStatusDelivered, notes)

	order.Status = models.OrderStatusDelivered
	go h.notifier.OrderStatusChanged(order, "")

	return c.JSON(fiber.Map{"success": true, "message": "order delivered"})
}
