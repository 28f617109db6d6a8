package handlers

import (
	"crypto/rand"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"grocery-delivery-api/config"
	"grocery-delivery-api/errs"
	"grocery-delivery-api/middleware"
	"grocery-delivery-api/models"
	"grocery-delivery-api/realtime"
)

// Package-level collaborators set once from main, following the
// config.DB pattern.
var (
	RT  *realtime.Client
	Cfg *config.Config
)

type RegisterRequest struct {
	Name     string          `json:"name" binding:"required"`
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=6"`
	Role     models.UserRole `json:"role"`
	Phone    string          `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a new user account and issues a verification code.
// Admin accounts cannot be self-registered.
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Role == "" {
		req.Role = models.RoleCustomer
	}
	if req.Role != models.RoleCustomer && req.Role != models.RoleAgent {
		errs.Abort(c, errs.Validation("Invalid role. Must be: customer or agent"))
		return
	}

	var existing models.User
	if result := config.DB.Where("email = ?", req.Email).First(&existing); result.Error == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		Phone:        req.Phone,
	}

	// Without a Redis-backed verification flow there is nowhere to hold
	// codes, so accounts verify immediately (local/dev setups).
	if RT == nil {
		user.Verified = true
	}

	if err := config.DB.Create(&user).Error; err != nil {
		errs.Abort(c, errs.Store(errs.Sanitize(err)))
		return
	}

	if RT != nil {
		if err := issueVerificationCode(&user); err != nil {
			logrus.WithError(err).WithField("user_id", user.ID).Warn("could not issue verification code")
		}
	}

	token, err := middleware.GenerateToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully. Please verify your email",
		"token":   token,
		"user": gin.H{
			"id":       user.ID,
			"name":     user.Name,
			"email":    user.Email,
			"role":     user.Role,
			"verified": user.Verified,
		},
	})
}

// Login authenticates a user and returns a JWT
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := middleware.GenerateToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user": gin.H{
			"id":       user.ID,
			"name":     user.Name,
			"email":    user.Email,
			"role":     user.Role,
			"verified": user.Verified,
		},
	})
}

// GetProfile returns the authenticated user's profile
func GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		errs.Abort(c, errs.NotFound("User not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

type UpdateProfileRequest struct {
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Location        string `json:"location"`
	DeliveryAddress string `json:"delivery_address"`
}

// UpdateProfile lets a user edit their own identity fields and operating
// zone. Settlement and role fields are never writable here; those belong
// to the agent/admin flows.
func UpdateProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Location != "" && !models.IsValidZone(req.Location) {
		errs.Abort(c, errs.Validation("Unknown delivery zone: "+req.Location))
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.Location != "" {
		updates["location"] = req.Location
	}
	if req.DeliveryAddress != "" {
		updates["delivery_address"] = req.DeliveryAddress
	}
	if len(updates) == 0 {
		errs.Abort(c, errs.Validation("Nothing to update"))
		return
	}

	if err := config.DB.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		errs.Abort(c, errs.Store(errs.Sanitize(err)))
		return
	}

	var user models.User
	config.DB.First(&user, userID)
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": user})
}

type VerifyEmailRequest struct {
	Code string `json:"code" binding:"required"`
}

// VerifyEmail consumes a verification code and mirrors the verified flag
// into the user record.
func VerifyEmail(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	code, err := RT.GetVerificationCode(userID)
	if err != nil {
		errs.Abort(c, errs.Store(errs.Sanitize(err)))
		return
	}
	if code == "" || code != req.Code {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid or expired verification code"})
		return
	}

	if err := config.DB.Model(&models.User{}).Where("id = ?", userID).Update("verified", true).Error; err != nil {
		errs.Abort(c, errs.Store(errs.Sanitize(err)))
		return
	}
	RT.DeleteVerificationCode(userID)

	c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
}

// VerificationStatus backs the client's polling loop while it waits for
// the verification link/code to be used.
func VerificationStatus(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		errs.Abort(c, errs.NotFound("User not found"))
		return
	}
	pollSeconds := 5
	if Cfg != nil {
		pollSeconds = Cfg.StatusPollSeconds
	}
	c.JSON(http.StatusOK, gin.H{
		"verified":           user.Verified,
		"poll_after_seconds": pollSeconds,
	})
}

// ResendVerification issues a fresh code, replacing any outstanding one.
func ResendVerification(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		errs.Abort(c, errs.NotFound("User not found"))
		return
	}
	if user.Verified {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Account is already verified"})
		return
	}
	if RT == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Verification service is unavailable"})
		return
	}
	if err := issueVerificationCode(&user); err != nil {
		errs.Abort(c, errs.Store(errs.Sanitize(err)))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
}

// issueVerificationCode generates and stores a 6-digit code. Delivery is
// logged in place of a mail provider integration.
func issueVerificationCode(user *models.User) error {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return err
	}
	n := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	code := fmt.Sprintf("%06d", n%1000000)

	ttl := 24 * time.Hour
	if Cfg != nil {
		ttl = time.Duration(Cfg.VerificationTTLHrs) * time.Hour
	}
	if err := RT.SetVerificationCode(user.ID, code, ttl); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("verification code issued")
	return nil
}
