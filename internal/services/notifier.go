package services

import (
	"encoding/json"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/example/freshcut/internal/models"
)

// Notifier creates in-app notification records and dispatches push and
// email side effects. Every method is best-effort: failures are logged and
// never propagated, so call sites can run them from goroutines without
// affecting the HTTP response.
type Notifier struct {
	db    *gorm.DB
	push  *PushService
	email *EmailService
}

// NewNotifier constructs a Notifier.
func NewNotifier(db *gorm.DB, push *PushService, email *EmailService) *Notifier {
	return &Notifier{db: db, push: push, email: email}
}

func (n *Notifier) notifyUser(user models.User, title, message, typ, priority string, metadata map[string]string) {
	record := models.Notification{
		UserID:   user.ID,
		Title:    title,
		Message:  message,
		Type:     typ,
		Priority: priority,
		IsActive: true,
	}

	if len(metadata) > 0 {
		if raw, err := json.Marshal(metadata); err == nil {
			record.Metadata = string(raw)
		}
	}

	if err := n.db.Create(&record).Error; err != nil {
		log.Printf("[Notify] Failed to store notification for %s: %v", user.ID, err)
	}

	if err := n.push.Send(user.PushToken, title, message, metadata); err != nil {
		log.Printf("[Notify] Push to %s failed: %v", user.ID, err)
	}
}

func (n *Notifier) activeUsersByRole(role string) []models.User {
	var users []models.User
	if err := n.db.Where("role = ? AND is_active = ?", role, true).Find(&users).Error; err != nil {
		log.Printf("[Notify] Failed to load %s users: %v", role, err)
		return nil
	}
	return users
}

// OrderPlaced notifies the customer and every active admin about a new
// order and emails the customer a confirmation.
func (n *Notifier) OrderPlaced(order models.Order, customer models.User) {
	meta := map[string]string{
		"order_id":     order.ID.String(),
		"order_number": order.OrderNumber,
	}

	n.notifyUser(customer,
		"Order placed",
		fmt.Sprintf("Your order %s for %s has been placed.", order.OrderNumber, FormatPrice(order.TotalAmount)),
		models.NotificationTypeOrder, models.NotificationPriorityNormal, meta)

	for _, admin := range n.activeUsersByRole(models.RoleAdmin) {
		n.notifyUser(admin,
			"New order",
			fmt.Sprintf("%s placed order %s for %s.", customer.DisplayName(), order.OrderNumber, FormatPrice(order.TotalAmount)),
			models.NotificationTypeOrder, models.NotificationPriorityHigh, meta)
	}

	if customer.Email != "" {
		if err := n.email.SendOrderConfirmation(customer.Email, customer.DisplayName(), &order); err != nil {
			log.Printf("[Notify] Confirmation email for %s failed: %v", order.OrderNumber, err)
		}
	}
}

// OrderStatusChanged notifies the customer about a status transition.
func (n *Notifier) OrderStatusChanged(order models.Order, notes string) {
	var customer models.User
	if err := n.db.First(&customer, "id = ?", order.UserID).Error; err != nil {
		log.Printf("[Notify] Failed to load customer for order %s: %v", order.OrderNumber, err)
		return
	}

	message := fmt.Sprintf("Your order %s is now %s.", order.OrderNumber, order.Status)
	if notes != "" {
		message += " " + notes
	}

	n.notifyUser(customer, "Order update", message,
		models.NotificationTypeOrder, models.NotificationPriorityNormal,
		map[string]string{
			"order_id":     order.ID.String(),
			"order_number": order.OrderNumber,
			"status":       order.Status,
		})
}

// OrderAssigned notifies the customer and the delivery agent about a
// delivery assignment.
func (n *Notifier) OrderAssigned(order models.Order, agent models.User) {
	meta := map[string]string{
		"order_id":     order.ID.String(),
		"order_number": order.OrderNumber,
	}

	var customer models.User
	if err := n.db.First(&customer, "id = ?", order.UserID).Error; err == nil {
		n.notifyUser(customer,
			"Order on the way",
			fmt.Sprintf("%s is delivering your order %s.", agent.DisplayName(), order.OrderNumber),
			models.NotificationTypeOrder, models.NotificationPriorityNormal, meta)
	} else {
		log.Printf("[Notify] Failed to load customer for order %s: %v", order.OrderNumber, err)
	}

	n.notifyUser(agent,
		"Delivery assigned",
		fmt.Sprintf("Order %s has been assigned to you.", order.OrderNumber),
		models.NotificationTypeOrder, models.NotificationPriorityHigh, meta)
}

// CouponCreated announces a new coupon to every active customer.
func (n *Notifier) CouponCreated(coupon models.Coupon) {
	var discount string
	if coupon.Type == models.CouponTypePercentage {
		discount = fmt.Sprintf("%.0f%% off", coupon.Value)
	} else {
		discount = fmt.Sprintf("%s off", FormatPrice(coupon.Value))
	}

	for _, customer := range n.activeUsersByRole(models.RoleCustomer) {
		n.notifyUser(customer,
			"New coupon",
			fmt.Sprintf("Use code %s for %s on your next order.", coupon.Code, discount),
			models.NotificationTypeCoupon, models.NotificationPriorityLow,
			map[string]string{"coupon_code": coupon.Code})
	}
}
