package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/freshcut/internal/cache"
	"github.com/example/freshcut/internal/config"
	"github.com/example/freshcut/internal/handlers"
	"github.com/example/freshcut/internal/middleware"
	"github.com/example/freshcut/internal/models"
	"github.com/example/freshcut/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	pushService := services.NewPushService(cfg.ExpoPushURL)
	emailService := services.NewEmailService(cfg.SendGridAPIKey, cfg.EmailFrom)
	notifier := services.NewNotifier(db, pushService, emailService)
	productCache := cache.New(cfg.RedisURL)

	authHandler := handlers.NewAuthHandler(db, cfg)
	productHandler := handlers.NewProductHandler(db, productCache, cfg.UploadDir)
	cartHandler := handlers.NewCartHandler(db)
	couponHandler := handlers.NewCouponHandler(db, notifier)
	orderHandler := handlers.NewOrderHandler(db, notifier)
	deliveryHandler := handlers.NewDeliveryHandler(db, notifier)
	adminHandler := handlers.NewAdminHandler(db, notifier)
	addressHandler := handlers.NewAddressHandler(db)
	notificationHandler := handlers.NewNotificationHandler(db)

	auth := middleware.AuthMiddleware(cfg)
	optionalAuth := middleware.OptionalAuth(cfg)
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	deliveryOnly := middleware.RequireRole(models.RoleDelivery)

	api := app.Group("/api")

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/verify", authHandler.Verify)

	// Catalog
	products := api.Group("/products")
	products.Get("/", optionalAuth, productHandler.ListProducts)
	products.Get("/:id", optionalAuth, productHandler.GetProduct)
	products.Post("/", auth, adminOnly, productHandler.CreateProduct)
	products.Put("/:id", auth, adminOnly, productHandler.UpdateProduct)
	products.Delete("/:id", auth, adminOnly, productHandler.DeleteProduct)
	products.Post("/:id/image", auth, adminOnly, productHandler.UploadImage)

	// Coupons
	coupons := api.Group("/coupons")
	coupons.Get("/", couponHandler.ListActive)
	coupons.Post("/validate", auth, couponHandler.ValidateCoupon)
	coupons.Get("/all", auth, adminOnly, couponHandler.ListAll)
	coupons.Post("/", auth, adminOnly, couponHandler.CreateCoupon)
	coupons.Put("/:id", auth, adminOnly, couponHandler.UpdateCoupon)
	coupons.Delete("/:id", auth, adminOnly, couponHandler.DeleteCoupon)

	// Cart
	cart := api.Group("/cart", auth)
	cart.Get("/", cartHandler.GetCart)
	cart.Post("/items", cartHandler.AddItem)
	cart.Put("/items/:productId", cartHandler.UpdateItem)
	cart.Delete("/items/:productId", cartHandler.RemoveItem)
	cart.Delete("/", cartHandler.ClearCart)
	cart.Post("/coupon", cartHandler.ApplyCoupon)
	cart.Delete("/coupon", cartHandler.RemoveCoupon)

	// Orders
	orders := api.Group("/orders", auth)
	orders.Post("/", orderHandler.CreateOrder)
	orders.Get("/", orderHandler.ListOrders)
	orders.Get("/:id", orderHandler.GetOrder)
	orders.Put("/:id/cancel", orderHandler.CancelOrder)

	// Delivery agent routes
	delivery := api.Group("/delivery/orders", auth, deliveryOnly)
	delivery.Get("/available", deliveryHandler.ListAvailable)
	delivery.Get("/mine", deliveryHandler.ListMine)
	delivery.Put("/:id/accept", deliveryHandler.AcceptOrder)
	delivery.Put("/:id/status", deliveryHandler.UpdateStatus)

	// Admin routes
	admin := api.Group("/admin", auth, adminOnly)
	admin.Get("/stats", adminHandler.DashboardStats)
	admin.Get("/orders", adminHandler.ListAllOrders)
	admin.Put("/orders/:id/status", adminHandler.UpdateOrderStatus)
	admin.Put("/orders/:id/assign", adminHandler.AssignDelivery)
	admin.Get("/users", adminHandler.ListAllUsers)
	admin.Get("/delivery-agents", adminHandler.ListDeliveryAgents)

	// Addresses
	addresses := api.Group("/addresses", auth)
	addresses.Get("/", addressHandler.ListAddresses)
	addresses.Post("/", addressHandler.CreateAddress)
	addresses.Put("/:id", addressHandler.UpdateAddress)
	addresses.Put("/:id/default", addressHandler.SetDefault)
	addresses.Delete("/:id", addressHandler.DeleteAddress)

	// Notifications
	notifications := api.Group("/notifications", auth)
	notifications.Get("/", notificationHandler.ListNotifications)
	notifications.Put("/read-all", notificationHandler.MarkAllRead)
	notifications.Put("/:id/read", notificationHandler.MarkRead)

	api.Put("/users/push-token", auth, notificationHandler.UpdatePushToken)
}
