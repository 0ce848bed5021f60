package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"basil/internal/database"
	"basil/internal/logger"
	"basil/internal/models"

	"github.com/gin-gonic/gin"
)

type MenuItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	DietaryType string  `json:"dietary_type"`
	Available   *bool   `json:"available"`
}

type MealPlanRequest struct {
	Name          string                `json:"name" binding:"required"`
	Occasion      string                `json:"occasion" binding:"required"`
	PricePerGuest float64               `json:"price_per_guest" binding:"required"`
	DietaryType   string                `json:"dietary_type"`
	Items         []models.MealPlanItem `json:"items"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func handleAdminListOrders(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	orders, err := database.ListOrders(db, c.Query("status"))
	if err != nil {
		logger.Error("Failed to list orders", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func handleAdminGetOrder(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	db := c.MustGet("db").(*sql.DB)

	order, err := database.GetOrderByID(db, orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

func handleAdminUpdateOrderStatus(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}

	db := c.MustGet("db").(*sql.DB)

	if err := database.UpdateOrderStatus(db, orderID, req.Status); err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		if strings.Contains(err.Error(), "invalid status transition") {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to update order status", "order_id", orderID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}

	order, err := database.GetOrderByID(db, orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

func handleAdminDeleteOrder(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	db := c.MustGet("db").(*sql.DB)

	if err := database.DeleteOrder(db, orderID); err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		logger.Error("Failed to delete order", "order_id", orderID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}

func handleAdminListMenuItems(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	// Admins see unavailable items too
	items, err := database.GetMenuItems(db, database.MenuFilter{
		Category:    c.Query("category"),
		DietaryType: c.Query("dietary_type"),
	})
	if err != nil {
		logger.Error("Failed to list menu items", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load menu items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

func handleAdminGetMenuItem(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid menu item ID"})
		return
	}

	db := c.MustGet("db").(*sql.DB)

	item, err := database.GetMenuItem(db, itemID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

func handleAdminCreateMenuItem(c *gin.Context) {
	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, price and category are required"})
		return
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	db := c.MustGet("db").(*sql.DB)

	item, err := database.CreateMenuItem(db, models.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		DietaryType: req.DietaryType,
		Available:   available,
	})
	if err != nil {
		logger.Error("Failed to create menu item", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create menu item"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"item": item})
}

func handleAdminUpdateMenuItem(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid menu item ID"})
		return
	}

	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, price and category are required"})
		return
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	db := c.MustGet("db").(*sql.DB)

	err = database.UpdateMenuItem(db, itemID, models.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		DietaryType: req.DietaryType,
		Available:   available,
	})
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
			return
		}
		logger.Error("Failed to update menu item", "menu_item_id", itemID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update menu item"})
		return
	}

	item, err := database.GetMenuItem(db, itemID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

func handleAdminDeleteMenuItem(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid menu item ID"})
		return
	}

	db := c.MustGet("db").(*sql.DB)

	if err := database.DeleteMenuItem(db, itemID); err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
			return
		}
		logger.Error("Failed to delete menu item", "menu_item_id", itemID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete menu item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}

func handleAdminListMealPlans(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	plans, err := database.GetMealPlans(db, c.Query("occasion"), c.Query("dietary_type"))
	if err != nil {
		logger.Error("Failed to list meal plans", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load meal plans"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"meal_plans": plans})
}

func handleAdminGetMealPlan(c *gin.Context) {
	planID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid meal plan ID"})
		return
	}

	db := c.MustGet("db").(*sql.DB)

	plan, err := database.GetMealPlan(db, planID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meal plan not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"meal_plan": plan})
}

func handleAdminCreateMealPlan(c *gin.Context) {
	var req MealPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, occasion and price per guest are required"})
		return
	}

	db := c.MustGet("db").(*sql.DB)

	plan, err := database.CreateMealPlan(db, models.MealPlan{
		Name:          req.Name,
		Occasion:      req.Occasion,
		PricePerGuest: req.PricePerGuest,
		DietaryType:   req.DietaryType,
		Items:         req.Items,
	})
	if err != nil {
		logger.Error("Failed to create meal plan", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create meal plan"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"meal_plan": plan})
}

func handleAdminUpdateMealPlan(c *gin.Context) {
	planID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid meal plan ID"})
		return
	}

	var req MealPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, occasion and price per guest are required"})
		return
	}

	db := c.MustGet("db").(*sql.DB)

	err = database.UpdateMealPlan(db, planID, models.MealPlan{
		Name:          req.Name,
		Occasion:      req.Occasion,
		PricePerGuest: req.PricePerGuest,
		DietaryType:   req.DietaryType,
		Items:         req.Items,
	})
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Meal plan not found"})
			return
		}
		logger.Error("Failed to update meal plan", "meal_plan_id", planID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update meal plan"})
		return
	}

	plan, err := database.GetMealPlan(db, planID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meal plan not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"meal_plan": plan})
}

func handleAdminDeleteMealPlan(c *gin.Context) {
	planID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid meal plan ID"})
		return
	}

	db := c.MustGet("db").(*sql.DB)

	if err := database.DeleteMealPlan(db, planID); err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Meal plan not found"})
			return
		}
		logger.Error("Failed to delete meal plan", "meal_plan_id", planID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete meal plan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Meal plan deleted"})
}

func handleAdminDashboard(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	stats, err := database.GetDashboardStats(db)
	if err != nil {
		logger.Error("Failed to get dashboard stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func handleAdminAnalytics(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	days := 30
	if d, err := strconv.Atoi(c.Query("days")); err == nil && d > 0 {
		days = d
	}

	revenue, err := database.GetRevenueByDay(db, days)
	if err != nil {
		logger.Error("Failed to get revenue analytics", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analytics"})
		return
	}

	topItems, err := database.GetTopMenuItems(db, 10)
	if err != nil {
		logger.Error("Failed to get top menu items", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analytics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"revenue_by_day": revenue,
		"top_menu_items": topItems,
	})
}
