package handlers

import (
	"database/sql"
	"net/http"
	"strconv"

	"basil/internal/database"
	"basil/internal/logger"

	"github.com/gin-gonic/gin"
)

func handleMenu(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	filter := database.MenuFilter{
		Category:      c.Query("category"),
		DietaryType:   c.Query("dietary_type"),
		AvailableOnly: c.Query("include_unavailable") == "",
	}

	items, err := database.GetMenuItems(db, filter)
	if err != nil {
		logger.Error("Failed to get menu items", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load menu"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

func handleMealPlans(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	plans, err := database.GetMealPlans(db, c.Query("occasion"), c.Query("dietary_type"))
	if err != nil {
		logger.Error("Failed to get meal plans", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load meal plans"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"meal_plans": plans})
}

func handleMealPlan(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	planID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid meal plan ID"})
		return
	}

	plan, err := database.GetMealPlan(db, planID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meal plan not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"meal_plan": plan})
}
