package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/freshcut/internal/models"
	"github.com/example/freshcut/internal/services"
	"github.com/example/freshcut/internal/utils"
)

// AdminHandler manages admin-only endpoints.
type AdminHandler struct {
	db       *gorm.DB
	notifier *services.Notifier
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(db *gorm.DB, notifier *services.Notifier) *AdminHandler {
	return &AdminHandler{db: db, notifier: notifier}
}

// DashboardStats returns aggregate statistics for the admin dashboard.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	var totalUsers int64
	if err := h.db.Model(&models.User{}).
		Where("role = ?", models.RoleCustomer).
		Count(&totalUsers).Error; err != nil {
		return err
	}

	var totalProducts int64
	if err := h.db.Model(&models.Product{}).
		Where("is_active = ?", true).
		Count(&totalProducts).Error; err != nil {
		return err
	}

	var totalOrders int64
	if err := h.db.Model(&models.Order{}).Count(&totalOrders).Error; err != nil {
		return err
	}

	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	var statusCounts []statusCount
	if err := h.db.Model(&models.Order{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return err
	}

	ordersByStatus := make(map[string]int64)
	for _, sc := range statusCounts {
		ordersByStatus[sc.Status] = sc.Count
	}

	var totalRevenue float64
	if err := h.db.Model(&models.Order{}).
		Where("status != ?", models.OrderStatusCancelled).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&totalRevenue).Error; err != nil {
		return err
	}

	var todayRevenue float64
	if err := h.db.Model(&models.Order{}).
		Where("status != ? AND placed_at::date = CURRENT_DATE", models.OrderStatusCancelled).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&todayRevenue).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_customers":  totalUsers,
			"total_products":   totalProducts,
			"total_orders":     totalOrders,
			"total_revenue":    totalRevenue,
			"today_revenue":    todayRevenue,
			"orders_by_status": ordersByStatus,
		},
	})
}

// ListAllOrders returns all orders with pagination and filters.
func (h *AdminHandler) ListAllOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if search := c.Query("search"); search != "" {
		query = query.Where(
			"order_number ILIKE ? OR contact_name ILIKE ? OR contact_phone ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%",
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").Preload("User").Preload("AssignedTo").
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

type adminStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// UpdateOrderStatus writes an arbitrary status. The admin path does not
// enforce a transition table; only the delivery endpoints do.
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req adminStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Status == "" {
		return fiber.NewError(fiber.StatusBadRequest, "status is required")
	}

	var order models.Order
	if err := h.db.First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	if err := h.db.Model(&order).Update("status", req.Status).Error; err != nil {
		return err
	}

	appendStatus(h.db, order.ID, req.Status, req.Notes)

	order.Status = req.Status
	go h.notifier.OrderStatusChanged(order, req.Notes)

	return c.JSON(fiber.Map{"success": true, "message": "status updated"})
}

type assignOrderRequest struct {
	AgentID    string `json:"agent_id"`
	ETAMinutes int    `json:"eta_minutes"`
}

// AssignDelivery assigns a delivery agent and forces the order
// out-for-delivery. There is no version check against agent self-accept, so
// the last write wins.
func (h *AdminHandler) AssignDelivery(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req assignOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	agentID, err := uuid.Parse(req.AgentID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid agent id")
	}

	var agent models.User
	if err := h.db.First(&agent,
		"id = ? AND role = ? AND is_active = ?", agentID, models.RoleDelivery, true).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "delivery agent not found")
		}
		return err
	}

	var order models.Order
	if err := h.db.First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	if order.IsTerminal() {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("order cannot be assigned in status %q", order.Status))
	}

	if err := h.db.Model(&order).Updates(map[string]interface{}{
		"assigned_to_id": agentID,
		"status":         models.OrderStatusOutForDelivery,
	}).Error; err != nil {
		return err
	}

	notes := fmt.Sprintf("assigned to %s", agent.DisplayName())
	if req.ETAMinutes > 0 {
		notes = fmt.Sprintf("%s, ETA %d minutes", notes, req.ETAMinutes)
	}
	appendStatus(h.db, order.ID, models.OrderStatusOutForDelivery, notes)

	order.AssignedToID = &agentID
	order.Status = models.OrderStatusOutForDelivery
	go h.notifier.OrderAssigned(order, agent)

	return c.JSON(fiber.Map{"success": true, "message": "delivery assigned"})
}

// ListAllUsers returns registered users with order stats.
func (h *AdminHandler) ListAllUsers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.User{})

	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	if search := c.Query("search"); search != "" {
		query = query.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR phone ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%",
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	// credential hashes stay out of list responses
	var users []models.User
	if err := query.Select("id, first_name, last_name, email, phone, role, is_active, is_verified, created_at, updated_at").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&users).Error; err != nil {
		return err
	}

	type userStats struct {
		UserID     string  `json:"user_id"`
		OrderCount int64   `json:"order_count"`
		TotalSpent float64 `json:"total_spent"`
	}

	var stats []userStats
	h.db.Model(&models.Order{}).
		Select("user_id, count(*) as order_count, COALESCE(SUM(total_amount), 0) as total_spent").
		Group("user_id").
		Scan(&stats)

	statsMap := make(map[string]userStats)
	for _, s := range stats {
		statsMap[s.UserID] = s
	}

	type userResponse struct {
		models.User
		OrderCount int64   `json:"order_count"`
		TotalSpent float64 `json:"total_spent"`
	}

	result := make([]userResponse, len(users))
	for i, u := range users {
		result[i] = userResponse{User: u}
		if s, ok := statsMap[u.ID.String()]; ok {
			result[i].OrderCount = s.OrderCount
			result[i].TotalSpent = s.TotalSpent
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    result,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// ListDeliveryAgents returns active delivery agents for the assignment UI.
func (h *AdminHandler) ListDeliveryAgents(c *fiber.Ctx) error {
	var agents []models.User
	if err := h.db.
		Select("id, first_name, last_name, phone, is_active, created_at").
		Where("role = ? AND is_active = ?", models.RoleDelivery, true).
		Order("first_name asc").
		Find(&agents).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": agents})
}
