package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"basil/internal/database"
	"basil/internal/logger"

	"github.com/gin-gonic/gin"
)

type AddCartItemRequest struct {
	MenuItemID     int    `json:"menu_item_id" binding:"required"`
	Quantity       int    `json:"quantity"`
	Customizations string `json:"customizations"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

type SetGuestsRequest struct {
	GuestCount int `json:"guest_count"`
}

func handleGetCart(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	userID := c.MustGet("user_id").(int)

	cart, err := database.GetActiveCart(db, userID)
	if err != nil {
		logger.Error("Failed to get cart", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

func handleAddCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Menu item ID is required"})
		return
	}

	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be at least 1"})
		return
	}

	db := c.MustGet("db").(*sql.DB)
	userID := c.MustGet("user_id").(int)

	cart, err := database.AddCartItem(db, userID, req.MenuItemID, req.Quantity, req.Customizations)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
			return
		}
		if strings.Contains(err.Error(), "not available") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Menu item is not available"})
			return
		}
		logger.Error("Failed to add cart item", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

func handleUpdateCartItem(c *gin.Context) {
	cartItemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart item ID"})
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity is required"})
		return
	}
	if req.Quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be at least 1"})
		return
	}

	db := c.MustGet("db").(*sql.DB)
	userID := c.MustGet("user_id").(int)

	cart, err := database.UpdateCartItem(db, userID, cartItemID, req.Quantity)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}
		logger.Error("Failed to update cart item", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

func handleRemoveCartItem(c *gin.Context) {
	cartItemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart item ID"})
		return
	}

	db := c.MustGet("db").(*sql.DB)
	userID := c.MustGet("user_id").(int)

	cart, err := database.RemoveCartItem(db, userID, cartItemID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}
		logger.Error("Failed to remove cart item", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove cart item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

func handleSetCartGuests(c *gin.Context) {
	var req SetGuestsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Guest count is required"})
		return
	}
	if req.GuestCount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Guest count cannot be negative"})
		return
	}

	db := c.MustGet("db").(*sql.DB)
	userID := c.MustGet("user_id").(int)

	cart, err := database.SetCartGuestCount(db, userID, req.GuestCount)
	if err != nil {
		logger.Error("Failed to set guest count", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update guest count"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": cart})
}
