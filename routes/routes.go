package routes

import (
	"github.com/gin-gonic/gin"

	"grocery-delivery-api/handlers"
	"grocery-delivery-api/middleware"
	"grocery-delivery-api/models"
)

func SetupRoutes(r *gin.Engine) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth
		public.POST("/auth/register", handlers.Register)
		public.POST("/auth/login", handlers.Login)

		// Catalog & zones (no auth needed)
		public.GET("/products", handlers.ListProducts)
		public.GET("/zones", handlers.ListZones)
		public.GET("/delivery-window", handlers.GetDeliveryWindow)

		// State machine info (great for docs/Postman)
		public.GET("/state-machine", handlers.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/profile", handlers.GetProfile)
		auth.PUT("/profile", handlers.UpdateProfile)
		auth.POST("/auth/verify", handlers.VerifyEmail)
		auth.GET("/auth/verify-status", handlers.VerificationStatus)
		auth.POST("/auth/resend-verification", handlers.ResendVerification)
	}

	// ── Customer routes ────────────────────────────────────────────
	customer := r.Group("/api/customer")
	customer.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleCustomer), middleware.VerifiedRequired())
	{
		customer.POST("/orders", handlers.PlaceOrder)
		customer.GET("/orders", handlers.GetMyOrders)
		customer.GET("/orders/:id", handlers.GetOrderDetail)
		customer.DELETE("/orders/:id", handlers.CancelOrder)
	}

	// ── Agent routes ───────────────────────────────────────────────
	agent := r.Group("/api/agent")
	agent.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleAgent), middleware.VerifiedRequired())
	{
		agent.GET("/orders/pending", handlers.GetPendingOrders)
		agent.GET("/orders/my-deliveries", handlers.GetMyDeliveries)
		agent.GET("/orders/completed", handlers.GetCompletedDeliveries)
		agent.PUT("/orders/:id/accept", handlers.AcceptOrder)
		agent.PUT("/orders/:id/deliver", handlers.DeliverOrder)
		agent.GET("/earnings", handlers.GetEarnings)
		agent.POST("/settlement", handlers.SubmitSettlement)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/users", handlers.AdminGetAllUsers)
		admin.DELETE("/users/:id", handlers.AdminDeleteUser)
		admin.PUT("/users/:id/verify", handlers.AdminVerifyUser)
		admin.PUT("/users/:id/role", handlers.AdminChangeRole)
		admin.PUT("/users/:id/paid", handlers.AdminSetPaid)
		admin.PUT("/users/:id/match", handlers.AdminMatchVerdict)
		admin.POST("/agents/set-all-paid", handlers.AdminSetAllPaid)
		admin.GET("/orders", handlers.AdminGetAllOrders)
		admin.GET("/claims", handlers.AdminGetClaims)
	}
}
