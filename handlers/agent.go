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
	"grocery-delivery-api/period"
	"grocery-delivery-api/settlement"
	"grocery-delivery-api/statemachine"
)

// AdminBkashNumber is where agents send their settlement payments.
const AdminBkashNumber = "01234567890"

// requireActiveAgent loads the caller and rejects agents whose account
// has not been activated by an admin (isPaidAgent false).
func requireActiveAgent(c *gin.Context) (*models.User, bool) {
	user, err := middleware.GetUser(c)
	if err != nil {
		errs.Abort(c, errs.NotFound("User not found"))
		return nil, false
	}
	if !user.IsPaidAgent {
		c.JSON(http.StatusForbidden, gin.H{"error": "Your agent account is not activated. Please contact support"})
		return nil, false
	}
	return user, true
}

// GetPendingOrders returns the claimable queue for the agent's zone:
// emergency orders first, newest first within each type.
func GetPendingOrders(c *gin.Context) {
	user, ok := requireActiveAgent(c)
	if !ok {
		return
	}
	if user.Location == "" {
		errs.Abort(c, errs.Validation("Please select your operating zone first"))
		return
	}

	var orders []models.Order
	config.DB.Preload("Items").
		Where("location = ? AND status = ?", user.Location, models.StatusPending).
		Order("CASE WHEN delivery_type = 'emergency' THEN 0 ELSE 1 END, created_at desc").
		Find(&orders)

	c.JSON(http.StatusOK, gin.H{
		"location": user.Location,
		"count":    len(orders),
		"orders":   orders,
	})
}

// GetMyDeliveries returns the agent's accepted (in-flight) orders
func GetMyDeliveries(c *gin.Context) {
	agentID := middleware.GetUserID(c)
	var orders []models.Order
	config.DB.Preload("Items").
		Where("agent_id = ? AND status = ?", agentID, models.StatusAccepted).
		Order("accepted_at desc").
		Find(&orders)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// GetCompletedDeliveries returns the agent's delivered orders
func GetCompletedDeliveries(c *gin.Context) {
	agentID := middleware.GetUserID(c)
	var orders []models.Order
	config.DB.Preload("Items").
		Where("agent_id = ? AND status = ?", agentID, models.StatusDelivered).
		Order("delivered_at desc").
		Find(&orders)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// AcceptOrder claims a pending order for the agent. The transition is a
// single conditional update so when two agents race, exactly one write
// matches and the loser gets a conflict instead of overwriting.
func AcceptOrder(c *gin.Context) {
	user, ok := requireActiveAgent(c)
	if !ok {
		return
	}
	orderID := c.Param("id")

	if !period.IsDeliveryHour(timeNow().Hour()) {
		errs.Abort(c, errs.Policy("Delivery service is available from 6:00 AM to 11:59 PM only"))
		return
	}

	var order models.Order
	if err := config.DB.First(&order, orderID).Error; err != nil {
		errs.Abort(c, errs.NotFound("Order not found"))
		return
	}

	if order.Location != user.Location {
		errs.Abort(c, errs.Policy("This order is outside your operating zone"))
		return
	}

	if err := statemachine.CanTransition(order.Status, models.StatusAccepted, "agent"); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             "Invalid state transition",
			"current_status":    order.Status,
			"reason":            err.Error(),
			"valid_next_states": statemachine.ValidTransitionsFrom(order.Status),
		})
		return
	}

	now := timeNow()
	res := config.DB.Model(&models.Order{}).
		Where("id = ? AND status = ? AND agent_id IS NULL", order.ID, models.StatusPending).
		Updates(map[string]interface{}{
			"status":      models.StatusAccepted,
			"agent_id":    user.ID,
			"agent_name":  user.Name,
			"agent_phone": user.Phone,
			"accepted_at": now,
		})
	if res.Error != nil {
		errs.Abort(c, errs.Store(errs.Sanitize(res.Error)))
		return
	}
	if res.RowsAffected == 0 {
		errs.Abort(c, errs.Conflict("Order has already been accepted by another agent"))
		return
	}

	order.Status = models.StatusAccepted
	publishOrderEvent("accepted", &order)
	logrus.WithFields(logrus.Fields{"order_id": order.ID, "agent_id": user.ID}).Info("order accepted")

	c.JSON(http.StatusOK, gin.H{
		"message":  "Order accepted successfully",
		"order_id": order.ID,
		"status":   models.StatusAccepted,
	})
}

// DeliverOrder transitions accepted → delivered; only the accepting
// agent may complete the delivery.
func DeliverOrder(c *gin.Context) {
	user, ok := requireActiveAgent(c)
	if !ok {
		return
	}
	orderID := c.Param("id")

	var order models.Order
	if err := config.DB.First(&order, orderID).Error; err != nil {
		errs.Abort(c, errs.NotFound("Order not found"))
		return
	}

	if order.AgentID == nil || *order.AgentID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not the assigned agent for this order"})
		return
	}

	if err := statemachine.CanTransition(order.Status, models.StatusDelivered, "agent"); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          "Invalid state transition",
			"current_status": order.Status,
			"reason":         err.Error(),
		})
		return
	}

	now := timeNow()
	config.DB.Model(&order).Updates(map[string]interface{}{
		"status":       models.StatusDelivered,
		"delivered_at": now,
	})

	order.Status = models.StatusDelivered
	publishOrderEvent("delivered", &order)
	logrus.WithFields(logrus.Fields{"order_id": order.ID, "agent_id": user.ID}).Info("order delivered")

	c.JSON(http.StatusOK, gin.H{
		"message":  "Order marked as delivered. You earned 40 (10 payment due)",
		"order_id": order.ID,
		"status":   models.StatusDelivered,
	})
}

// GetEarnings returns the agent's income/payment figures: the current
// period summary, current month aggregate, daily history, and whether
// this period's settlement is already done.
func GetEarnings(c *gin.Context) {
	agentID := middleware.GetUserID(c)
	user, err := middleware.GetUser(c)
	if err != nil {
		errs.Abort(c, errs.NotFound("User not found"))
		return
	}

	var delivered []models.Order
	config.DB.Where("agent_id = ? AND status = ?", agentID, models.StatusDelivered).Find(&delivered)

	now := timeNow()
	currentPeriod := period.PeriodAt(now)

	c.JSON(http.StatusOK, gin.H{
		"period":              settlement.ForPeriod(delivered, currentPeriod),
		"monthly":             settlement.ForMonth(delivered, now.Format("2006-01")),
		"daily_history":       settlement.DailyHistory(delivered),
		"payment_status":      paymentStatusFor(user, currentPeriod),
		"payment_window_open": period.IsPaymentWindowHour(now.Hour()),
		"admin_bkash":         AdminBkashNumber,
	})
}

// paymentStatusFor derives the agent-visible settlement state for a
// period from the single-slot claim fields. A used slot whose transaction
// id has been cleared means the claim was matched.
func paymentStatusFor(user *models.User, currentPeriod string) string {
	if user.LastPaymentPeriod != currentPeriod {
		return "pending"
	}
	if user.MatchStatus == models.MatchStatusNotMatched {
		return "rejected"
	}
	if user.TransactionID != "" {
		return "submitted"
	}
	return "complete"
}

type SubmitSettlementRequest struct {
	TransactionID string `json:"transaction_id" binding:"required"`
}

// SubmitSettlement records the agent's payment reference for the current
// period. Legal only inside the payment window, with payment actually
// due, and with no unresolved claim for the period. Open to unpaid
// agents too: paying is how a deactivated agent becomes active again.
func SubmitSettlement(c *gin.Context) {
	user, err := middleware.GetUser(c)
	if err != nil {
		errs.Abort(c, errs.NotFound("User not found"))
		return
	}

	var req SubmitSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	txID := strings.TrimSpace(req.TransactionID)
	if txID == "" {
		errs.Abort(c, errs.Validation("Please enter transaction ID"))
		return
	}

	if !period.IsPaymentWindowHour(timeNow().Hour()) {
		errs.Abort(c, errs.Policy("Payment can only be submitted between 12:00 AM to 5:59 AM"))
		return
	}

	currentPeriod := period.PeriodAt(timeNow())

	switch paymentStatusFor(user, currentPeriod) {
	case "submitted":
		errs.Abort(c, errs.Policy("Payment already submitted for this period and awaiting verification"))
		return
	case "complete":
		errs.Abort(c, errs.Policy("Payment already completed for this period"))
		return
	}

	var delivered []models.Order
	config.DB.Where("agent_id = ? AND status = ?", user.ID, models.StatusDelivered).Find(&delivered)
	due := settlement.ForPeriod(delivered, currentPeriod).PaymentDue
	if due == 0 {
		errs.Abort(c, errs.Policy("No payment due for this period"))
		return
	}

	claim := models.SettlementClaim{
		AgentID:       user.ID,
		AgentName:     user.Name,
		Period:        currentPeriod,
		TransactionID: txID,
		Amount:        due,
		Status:        models.ClaimPending,
	}
	if err := config.DB.Create(&claim).Error; err != nil {
		errs.Abort(c, errs.Store(errs.Sanitize(err)))
		return
	}

	// Occupy the single claim slot; the match verdict clears it.
	if err := config.DB.Model(user).Updates(map[string]interface{}{
		"transaction_id":      txID,
		"last_payment_period": currentPeriod,
		"match_status":        "",
	}).Error; err != nil {
		errs.Abort(c, errs.Store(errs.Sanitize(err)))
		return
	}

	logrus.WithFields(logrus.Fields{
		"agent_id": user.ID,
		"period":   currentPeriod,
		"amount":   due,
	}).Info("settlement submitted")

	c.JSON(http.StatusCreated, gin.H{
		"message": "Payment submitted for verification",
		"claim":   claim,
	})
}
