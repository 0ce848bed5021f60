package handlers

import (
	"database/sql"
	"net/http"

	"basil/internal/config"
	"basil/internal/email"
	"basil/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, db *sql.DB, cfg *config.Config, emailService *email.Service) {
	r.Use(middleware.LogRequests())
	r.Use(middleware.AddDBContext(db))
	r.Use(addConfigContext(cfg))
	r.Use(addEmailServiceContext(emailService))

	api := r.Group("/api")

	api.GET("/health", handleHealth)

	auth := api.Group("/auth")
	{
		auth.POST("/signup", middleware.AuthRateLimit(cfg), handleSignup)
		auth.POST("/login", middleware.AuthRateLimit(cfg), handleLogin)
		auth.POST("/logout", middleware.AuthRequired(db), handleLogout)
		auth.GET("/me", middleware.AuthRequired(db), handleMe)
	}

	// Catalog browsing needs no account
	api.GET("/menu", handleMenu)
	api.GET("/meal-plans", handleMealPlans)
	api.GET("/meal-plans/:id", handleMealPlan)

	protected := api.Group("/")
	protected.Use(middleware.AuthRequired(db))
	{
		protected.GET("/cart", handleGetCart)
		protected.POST("/cart/items", handleAddCartItem)
		protected.PUT("/cart/items/:id", handleUpdateCartItem)
		protected.DELETE("/cart/items/:id", handleRemoveCartItem)
		protected.PUT("/cart/guests", handleSetCartGuests)
		protected.POST("/cart/checkout", handleCheckout)

		protected.POST("/orders", handleCreateOrder)
		protected.GET("/orders", handleListOrders)
		protected.GET("/orders/:id", handleGetOrder)
	}

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(middleware.AdminRequired(db))
	{
		admin.GET("/orders", handleAdminListOrders)
		admin.GET("/orders/:id", handleAdminGetOrder)
		admin.PUT("/orders/:id", handleAdminUpdateOrderStatus)
		admin.DELETE("/orders/:id", handleAdminDeleteOrder)

		admin.GET("/meals", handleAdminListMenuItems)
		admin.GET("/meals/:id", handleAdminGetMenuItem)
		admin.POST("/meals", handleAdminCreateMenuItem)
		admin.PUT("/meals/:id", handleAdminUpdateMenuItem)
		admin.DELETE("/meals/:id", handleAdminDeleteMenuItem)

		admin.GET("/meal-plans", handleAdminListMealPlans)
		admin.GET("/meal-plans/:id", handleAdminGetMealPlan)
		admin.POST("/meal-plans", handleAdminCreateMealPlan)
		admin.PUT("/meal-plans/:id", handleAdminUpdateMealPlan)
		admin.DELETE("/meal-plans/:id", handleAdminDeleteMealPlan)

		admin.GET("/dashboard", handleAdminDashboard)
		admin.GET("/analytics", handleAdminAnalytics)
	}
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func addConfigContext(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("config", cfg)
		c.Next()
	}
}

func addEmailServiceContext(emailService *email.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("email_service", emailService)
		c.Next()
	}
}
