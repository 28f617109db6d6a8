package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	"grocery-delivery-api/config"
	"grocery-delivery-api/errs"
	"grocery-delivery-api/models"
)

// AdminGetAllUsers returns all users, optionally filtered by role
func AdminGetAllUsers(c *gin.Context) {
	var users []models.User
	query := config.DB
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	query.Order("created_at desc").Find(&users)
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}

// AdminGetAllOrders returns all orders with a status summary
func AdminGetAllOrders(c *gin.Context) {
	var orders []models.Order
	query := config.DB.Preload("Items")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if location := c.Query("location"); location != "" {
		query = query.Where("location = ?", location)
	}

	query.Order("created_at desc").Find(&orders)

	summary := map[string]int{}
	var totalRevenue float64
	for _, o := range orders {
		summary[string(o.Status)]++
		if o.Status == models.StatusDelivered {
			totalRevenue += o.Total
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"order_summary": summary,
		"total_revenue": totalRevenue,
		"count":         len(orders),
		"orders":        orders,
	})
}

type VerifyUserRequest struct {
	Verified *bool `json:"verified" binding:"required"`
}

// AdminVerifyUser force-sets a user's verified flag
func AdminVerifyUser(c *gin.Context) {
	var req VerifyUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var user models.User
	if err := config.DB.First(&user, c.Param("id")).Error; err != nil {
		errs.Abort(c, errs.NotFound("User not found"))
		return
	}
	if err := config.DB.Model(&user).Update("verified", *req.Verified).Error; err != nil {
		errs.Abort(c, errs.Store(errs.Sanitize(err)))
		return
	}
	status := "unverified"
	if *req.Verified {
		status = "verified"
	}
	c.JSON(http.StatusOK, gin.H{"message": "User " + status + " successfully", "user_id": user.ID})
}

type ChangeRoleRequest struct {
	Role models.UserRole `json:"role" binding:"required"`
}

// AdminChangeRole reassigns a user between customer and agent. Switching
// resets the role-specific fields: an ex-agent loses every agent field,
// a new agent starts unpaid with a zeroed rating.
func AdminChangeRole(c *gin.Context) {
	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Role != models.RoleCustomer && req.Role != models.RoleAgent {
		errs.Abort(c, errs.Validation("Invalid role. Must be: customer or agent"))
		return
	}

	var user models.User
	if err := config.DB.First(&user, c.Param("id")).Error; err != nil {
		errs.Abort(c, errs.NotFound("User not found"))
		return
	}
	if user.Role == models.RoleAdmin {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Admin accounts cannot be reassigned"})
		return
	}

	updates := map[string]interface{}{"role": req.Role}
	switch req.Role {
	case models.RoleCustomer:
		updates["is_paid_agent"] = false
		updates["rating"] = 0
		updates["total_ratings"] = 0
		updates["transaction_id"] = ""
		updates["match_status"] = ""
		updates["last_payment_period"] = ""
	case models.RoleAgent:
		updates["is_paid_agent"] = false
		updates["rating"] = 0
		updates["total_ratings"] = 0
	}

	if err := config.DB.Model(&user).Updates(updates).Error; err != nil {
		errs.Abort(c, errs.Store(errs.Sanitize(err)))
		return
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "role": req.Role}).Info("user role changed")
	c.JSON(http.StatusOK, gin.H{"message": "Role updated successfully", "user_id": user.ID, "role": req.Role})
}

type SetPaidRequest struct {
	IsPaid *bool `json:"is_paid" binding:"required"`
}

// AdminSetPaid toggles a single agent's paid/activated flag
func AdminSetPaid(c *gin.Context) {
	var req SetPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var user models.User
	if err := config.DB.First(&user, c.Param("id")).Error; err != nil {
		errs.Abort(c, errs.NotFound("User not found"))
		return
	}
	if user.Role != models.RoleAgent {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "User is not an agent"})
		return
	}
	if err := config.DB.Model(&user).Update("is_paid_agent", *req.IsPaid).Error; err != nil {
		errs.Abort(c, errs.Store(errs.Sanitize(err)))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Agent payment status updated", "user_id": user.ID})
}

// AdminSetAllPaid marks every agent paid — the manual escape hatch when
// reconciliation is done out of band.
func AdminSetAllPaid(c *gin.Context) {
	res := config.DB.Model(&models.User{}).
		Where("role = ?", models.RoleAgent).
		Update("is_paid_agent", true)
	if res.Error != nil {
		errs.Abort(c, errs.Store(errs.Sanitize(res.Error)))
		return
	}
	logrus.WithField("agents", res.RowsAffected).Info("all agents marked paid")
	c.JSON(http.StatusOK, gin.H{"message": "All agents marked as paid", "updated": res.RowsAffected})
}

type MatchVerdictRequest struct {
	MatchStatus models.MatchStatus `json:"match_status" binding:"required"`
}

// AdminMatchVerdict records the admin's verdict on an agent's submitted
// settlement. A matched verdict marks the agent paid and frees the claim
// slot for the next period; not_matched leaves the rejected transaction
// id visible for re-review.
func AdminMatchVerdict(c *gin.Context) {
	var req MatchVerdictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.MatchStatus != models.MatchStatusMatched && req.MatchStatus != models.MatchStatusNotMatched {
		errs.Abort(c, errs.Validation("Invalid match status. Must be: matched or not_matched"))
		return
	}

	var user models.User
	if err := config.DB.First(&user, c.Param("id")).Error; err != nil {
		errs.Abort(c, errs.NotFound("User not found"))
		return
	}
	if user.TransactionID == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Agent has no pending settlement to verify"})
		return
	}

	var updates map[string]interface{}
	claimStatus := models.ClaimNotMatched
	if req.MatchStatus == models.MatchStatusMatched {
		claimStatus = models.ClaimMatched
		updates = map[string]interface{}{
			"is_paid_agent":  true,
			"transaction_id": "",
			"match_status":   "",
		}
	} else {
		updates = map[string]interface{}{
			"is_paid_agent": false,
			"match_status":  models.MatchStatusNotMatched,
		}
	}

	if err := config.DB.Model(&user).Updates(updates).Error; err != nil {
		errs.Abort(c, errs.Store(errs.Sanitize(err)))
		return
	}

	// Resolve the matching claim row so the history survives the slot reset.
	now := time.Now()
	config.DB.Model(&models.SettlementClaim{}).
		Where("agent_id = ? AND period = ? AND status = ?", user.ID, user.LastPaymentPeriod, models.ClaimPending).
		Updates(map[string]interface{}{"status": claimStatus, "resolved_at": now})

	logrus.WithFields(logrus.Fields{
		"agent_id": user.ID,
		"period":   user.LastPaymentPeriod,
		"verdict":  req.MatchStatus,
	}).Info("settlement verdict recorded")

	c.JSON(http.StatusOK, gin.H{
		"message": "Transaction " + string(req.MatchStatus) + " and payment status updated",
		"user_id": user.ID,
		"verdict": req.MatchStatus,
	})
}

// AdminGetClaims lists settlement claims, newest first
func AdminGetClaims(c *gin.Context) {
	var claims []models.SettlementClaim
	query := config.DB
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if p := c.Query("period"); p != "" {
		query = query.Where("period = ?", p)
	}
	query.Order("created_at desc").Find(&claims)
	c.JSON(http.StatusOK, gin.H{"count": len(claims), "claims": claims})
}

// AdminDeleteUser removes a user account together with their pending
// orders. Accepted and delivered orders are kept; they belong to the
// order history of other actors too.
func AdminDeleteUser(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, c.Param("id")).Error; err != nil {
		errs.Abort(c, errs.NotFound("User not found"))
		return
	}
	if user.Role == models.RoleAdmin {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Admin accounts cannot be deleted"})
		return
	}

	config.DB.Where("customer_id = ? AND status = ?", user.ID, models.StatusPending).Delete(&models.Order{})
	if err := config.DB.Delete(&user).Error; err != nil {
		errs.Abort(c, errs.Store(errs.Sanitize(err)))
		return
	}

	logrus.WithField("user_id", user.ID).Info("user deleted")
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully", "user_id": user.ID})
}
