package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"basil/internal/database"
	"basil/internal/email"
	"basil/internal/logger"
	"basil/internal/models"

	"github.com/gin-gonic/gin"
)

type CheckoutRequest struct {
	Contact models.ContactInfo `json:"contact" binding:"required"`
	Event   models.EventInfo   `json:"event"`
}

type SelectionInput struct {
	MealPlanID int            `json:"meal_plan_id"`
	Name       string         `json:"name"`
	BasePrice  float64        `json:"base_price"`
	AddOns     []models.AddOn `json:"add_ons"`
	GuestCount int            `json:"guest_count"`
}

type CreateOrderRequest struct {
	Selections     []SelectionInput   `json:"selections" binding:"required"`
	Contact        models.ContactInfo `json:"contact" binding:"required"`
	Event          models.EventInfo   `json:"event"`
	GuestCount     int                `json:"guest_count"`
	IdempotencyKey string             `json:"idempotency_key"`
}

func handleCheckout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Contact details are required"})
		return
	}
	if strings.TrimSpace(req.Contact.Name) == "" || strings.TrimSpace(req.Contact.Phone) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Contact name and phone are required"})
		return
	}

	db := c.MustGet("db").(*sql.DB)
	userID := c.MustGet("user_id").(int)

	notes := &models.OrderNotes{Contact: req.Contact, Event: req.Event}

	order, err := database.CheckoutCart(db, userID, notes)
	if err != nil {
		if strings.Contains(err.Error(), "no active cart") || strings.Contains(err.Error(), "cart is empty") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
			return
		}
		logger.Error("Failed to checkout cart", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}

	logger.Info("Order placed",
		"user_id", userID,
		"order_number", order.OrderNumber,
		"total", order.TotalAmount)

	sendOrderConfirmation(c, order)

	c.JSON(http.StatusCreated, gin.H{"order": order})
}

func handleCreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Selections and contact details are required"})
		return
	}
	if len(req.Selections) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one selection is required"})
		return
	}
	if strings.TrimSpace(req.Contact.Name) == "" || strings.TrimSpace(req.Contact.Phone) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Contact name and phone are required"})
		return
	}

	db := c.MustGet("db").(*sql.DB)
	userID := c.MustGet("user_id").(int)

	// Reprice selections from the catalog; the client's numbers are only a
	// fallback for ad-hoc packages that reference no stored plan.
	selections := make([]models.SelectionLine, 0, len(req.Selections))
	for _, sel := range req.Selections {
		line := models.SelectionLine{
			MealPlanID: sel.MealPlanID,
			Name:       sel.Name,
			BasePrice:  sel.BasePrice,
			AddOns:     sel.AddOns,
			GuestCount: sel.GuestCount,
		}

		if sel.MealPlanID != 0 {
			plan, err := database.GetMealPlan(db, sel.MealPlanID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown meal plan in selections"})
				return
			}
			line.Name = plan.Name
			line.BasePrice = plan.PricePerGuest
		}

		selections = append(selections, line)
	}

	order, created, err := database.CreateDirectOrder(db, userID, database.DirectOrderInput{
		Selections:     selections,
		Contact:        req.Contact,
		Event:          req.Event,
		GuestCount:     req.GuestCount,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		logger.Error("Failed to create order", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}

	if !created {
		c.JSON(http.StatusOK, gin.H{"order": order})
		return
	}

	logger.Info("Order placed",
		"user_id", userID,
		"order_number", order.OrderNumber,
		"total", order.TotalAmount)

	sendOrderConfirmation(c, order)

	c.JSON(http.StatusCreated, gin.H{"order": order})
}

func handleListOrders(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	userID := c.MustGet("user_id").(int)

	orders, err := database.GetUserOrders(db, userID)
	if err != nil {
		logger.Error("Failed to list orders", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func handleGetOrder(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	db := c.MustGet("db").(*sql.DB)
	userID := c.MustGet("user_id").(int)

	order, err := database.GetOrderForUser(db, userID, orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

func sendOrderConfirmation(c *gin.Context, order *models.Order) {
	user := c.MustGet("user").(*models.User)

	emailSvc, _ := c.Get("email_service")
	service, ok := emailSvc.(*email.Service)
	if !ok || !service.IsEnabled() {
		return
	}

	go func(user models.User, order models.Order) {
		if err := service.SendOrderConfirmation(&user, &order); err != nil {
			logger.Warn("Failed to send order confirmation",
				"email", user.Email,
				"order_number", order.OrderNumber,
				"error", err)
		}
	}(*user, *order)
}
