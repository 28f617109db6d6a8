package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"grocery-delivery-api/config"
	"grocery-delivery-api/models"
	"grocery-delivery-api/period"
	"grocery-delivery-api/statemachine"
)

// ListProducts returns the grocery catalog (public)
func ListProducts(c *gin.Context) {
	var products []models.Product
	query := config.DB

	if category := c.Query("category"); category != "" && category != "All" {
		query = query.Where("category = ?", category)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	query.Order("category, name").Find(&products)
	c.JSON(http.StatusOK, gin.H{
		"count":      len(products),
		"categories": models.ProductCategories,
		"products":   products,
	})
}

// ListZones returns the serviceable delivery zones (public)
func ListZones(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"count": len(models.DeliveryZones),
		"zones": models.DeliveryZones,
	})
}

// GetDeliveryWindow reports the current period and window flags so
// clients can gate their UI without reimplementing the clock rules.
func GetDeliveryWindow(c *gin.Context) {
	now := timeNow()
	c.JSON(http.StatusOK, gin.H{
		"period":              period.PeriodAt(now),
		"delivery_hours_open": period.IsDeliveryHour(now.Hour()),
		"payment_window_open": period.IsPaymentWindowHour(now.Hour()),
		"delivery_opens_in_h": period.HoursUntilDeliveryOpens(now),
	})
}

// GetStateMachineInfo returns the order lifecycle for informational purposes
func GetStateMachineInfo(c *gin.Context) {
	var info []gin.H
	for _, t := range statemachine.GetAllTransitions() {
		info = append(info, gin.H{"from": t.From, "to": t.To, "actor": t.Actor})
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   info,
		"cancellation":    "pending orders are removed, not transitioned",
		"terminal_states": []string{string(models.StatusDelivered)},
		"description":     "Grocery Delivery Order Lifecycle State Machine",
	})
}
