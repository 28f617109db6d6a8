package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	"grocery-delivery-api/config"
	"grocery-delivery-api/errs"
	"grocery-delivery-api/middleware"
	"grocery-delivery-api/models"
	"grocery-delivery-api/realtime"
	"grocery-delivery-api/statemachine"
)

// Delivery charges fixed by policy.
const (
	NormalDeliveryCharge    = 50
	EmergencyDeliveryCharge = 100
)

type PlaceOrderRequest struct {
	DeliveryType    models.DeliveryType `json:"delivery_type"`
	DeliveryAddress string              `json:"delivery_address" binding:"required"`
	SpecialRequest  string              `json:"special_request"`
	Items           []struct {
		ProductID uint `json:"product_id" binding:"required"`
		Quantity  int  `json:"quantity" binding:"required,min=1"`
	} `json:"items"`
}

// PlaceOrder creates a new order (customer only). The customer's zone
// comes from their profile; name/phone/prices are snapshotted onto the
// order so later edits don't rewrite history.
func PlaceOrder(c *gin.Context) {
	user, err := middleware.GetUser(c)
	if err != nil {
		errs.Abort(c, errs.NotFound("User not found"))
		return
	}

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(req.Items) == 0 {
		errs.Abort(c, errs.Validation("Your cart is empty"))
		return
	}
	if user.Location == "" {
		errs.Abort(c, errs.Validation("Please select your delivery zone first"))
		return
	}
	address := strings.TrimSpace(req.DeliveryAddress)
	if address == "" {
		errs.Abort(c, errs.Validation("Please enter your delivery address"))
		return
	}

	deliveryType := req.DeliveryType
	if deliveryType == "" {
		deliveryType = models.DeliveryNormal
	}
	if deliveryType != models.DeliveryNormal && deliveryType != models.DeliveryEmergency {
		errs.Abort(c, errs.Validation("Invalid delivery type. Must be: normal or emergency"))
		return
	}

	// Build order items against the catalog and snapshot prices.
	var orderItems []models.OrderItem
	var subtotal float64
	for _, reqItem := range req.Items {
		var product models.Product
		if err := config.DB.First(&product, reqItem.ProductID).Error; err != nil {
			errs.Abort(c, errs.Validation("Product not found in catalog"))
			return
		}
		subtotal += product.Price * float64(reqItem.Quantity)
		orderItems = append(orderItems, models.OrderItem{
			ProductID: product.ID,
			Quantity:  reqItem.Quantity,
			Price:     product.Price,
			Name:      product.Name,
			Unit:      product.Unit,
		})
	}

	deliveryCharge := float64(NormalDeliveryCharge)
	if deliveryType == models.DeliveryEmergency {
		deliveryCharge = EmergencyDeliveryCharge
	}

	order := models.Order{
		CustomerID:      user.ID,
		CustomerName:    user.Name,
		CustomerPhone:   user.Phone,
		Items:           orderItems,
		DeliveryType:    deliveryType,
		DeliveryAddress: address,
		SpecialRequest:  strings.TrimSpace(req.SpecialRequest),
		Location:        user.Location,
		Subtotal:        subtotal,
		DeliveryCharge:  deliveryCharge,
		Total:           subtotal + deliveryCharge,
		Status:          models.StatusPending,
	}

	if err := config.DB.Create(&order).Error; err != nil {
		errs.Abort(c, errs.Store(errs.Sanitize(err)))
		return
	}

	// Remember the address for next checkout.
	if user.DeliveryAddress != address {
		config.DB.Model(user).Update("delivery_address", address)
	}

	publishOrderEvent("created", &order)
	logrus.WithFields(logrus.Fields{
		"order_id": order.ID,
		"location": order.Location,
		"type":     order.DeliveryType,
	}).Info("order placed")

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// GetMyOrders returns all orders for the logged-in customer
func GetMyOrders(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	var orders []models.Order
	config.DB.Preload("Items").
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		Find(&orders)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// GetOrderDetail returns a single order's full detail
func GetOrderDetail(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	orderID := c.Param("id")

	var order models.Order
	if err := config.DB.Preload("Items").First(&order, orderID).Error; err != nil {
		errs.Abort(c, errs.NotFound("Order not found"))
		return
	}
	if order.CustomerID != customerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// CancelOrder removes a pending order entirely. No record is kept; an
// order that has been accepted can no longer be cancelled.
func CancelOrder(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	orderID := c.Param("id")

	var order models.Order
	if err := config.DB.First(&order, orderID).Error; err != nil {
		errs.Abort(c, errs.NotFound("Order not found"))
		return
	}
	if order.CustomerID != customerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
		return
	}

	if err := statemachine.CanCancel(order.Status); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":         "Cannot cancel order",
			"reason":        err.Error(),
			"current_state": order.Status,
		})
		return
	}

	// Conditional delete: if an agent accepted between our read and this
	// write, zero rows match and the cancel is rejected.
	res := config.DB.Where("id = ? AND status = ?", order.ID, models.StatusPending).Delete(&models.Order{})
	if res.Error != nil {
		errs.Abort(c, errs.Store(errs.Sanitize(res.Error)))
		return
	}
	if res.RowsAffected == 0 {
		errs.Abort(c, errs.Conflict("Order was just accepted by an agent and can no longer be cancelled"))
		return
	}
	config.DB.Where("order_id = ?", order.ID).Delete(&models.OrderItem{})

	publishOrderEvent("cancelled", &order)

	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled successfully", "order_id": order.ID})
}

func publishOrderEvent(eventType string, order *models.Order) {
	if err := RT.PublishOrderEvent(realtime.OrderEvent{
		Type:     eventType,
		OrderID:  order.ID,
		Location: order.Location,
		At:       timeNow(),
	}); err != nil {
		logrus.WithError(err).WithField("order_id", order.ID).Warn("could not publish order event")
	}
}
