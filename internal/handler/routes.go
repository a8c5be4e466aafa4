package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/thesbsofficial/unity-v3-sub000/internal/handler/middleware"
	"github.com/thesbsofficial/unity-v3-sub000/internal/service"
)

func SetupRoutes(
	app *fiber.App,
	sessions *service.SessionService,
	authHandler *AuthHandler,
	productHandler *ProductHandler,
	orderHandler *OrderHandler,
	sellHandler *SellHandler,
	analyticsHandler *AnalyticsHandler,
	healthHandler *HealthHandler,
) {
	requireSession := middleware.RequireSession(sessions)
	requireCSRF := middleware.RequireCSRF()
	requireAdmin := middleware.RequireAdmin()

	// Health checks (public)
	app.Get("/health", healthHandler.Health)
	app.Get("/ready", healthHandler.Ready)

	// API v1
	api := app.Group("/api/v1")

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/forgot-password", authHandler.ForgotPassword)
	auth.Post("/reset-password", authHandler.ResetPassword)

	// Auth routes (session required)
	auth.Post("/logout", requireSession, authHandler.Logout)
	auth.Get("/me", requireSession, authHandler.Me)
	auth.Post("/change-password", requireSession, requireCSRF, authHandler.ChangePassword)

	// Catalog (public)
	products := api.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.Get)

	// Sell form and analytics ingestion (public)
	api.Post("/sell", sellHandler.Submit)
	api.Post("/analytics/track", analyticsHandler.Track)

	// Orders (session required; mutations also need the CSRF header)
	orders := api.Group("/orders", requireSession)
	orders.Post("/", requireCSRF, orderHandler.Create)
	orders.Get("/", orderHandler.ListMine)
	orders.Get("/:id", orderHandler.Get)

	// Admin routes (admin role + allowlist)
	admin := api.Group("/admin", requireSession, requireAdmin)

	adminProducts := admin.Group("/products")
	adminProducts.Get("/", productHandler.AdminList)
	adminProducts.Post("/", productHandler.Create)
	adminProducts.Put("/:id", productHandler.Update)
	adminProducts.Delete("/:id", productHandler.Delete)
	adminProducts.Post("/:id/image", productHandler.UploadImage)
	adminProducts.Delete("/:id/image", productHandler.DeleteImage)

	adminOrders := admin.Group("/orders")
	adminOrders.Get("/", orderHandler.AdminList)
	adminOrders.Patch("/:id/status", orderHandler.UpdateStatus)

	adminSubmissions := admin.Group("/submissions")
	adminSubmissions.Get("/", sellHandler.AdminList)
	adminSubmissions.Get("/:id", sellHandler.AdminGet)
	adminSubmissions.Post("/:id/review", sellHandler.Review)

	admin.Get("/analytics/daily", analyticsHandler.DailyCounts)
}
