package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"grocery-delivery-api/config"
	"grocery-delivery-api/middleware"
	"grocery-delivery-api/models"
)

// setupTest wires an in-memory database and a router mirroring the real
// route table. Caller gets a fresh store per test.
func setupTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:"+strings.ReplaceAll(t.Name(), "/", "_")+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	config.DB = db
	config.JWTSecret = []byte("test_secret")
	RT = nil
	Cfg = nil
	timeNow = time.Now
	t.Cleanup(func() { timeNow = time.Now })

	r := gin.New()

	public := r.Group("/api")
	{
		public.GET("/products", ListProducts)
		public.GET("/zones", ListZones)
		public.GET("/delivery-window", GetDeliveryWindow)
		public.GET("/state-machine", GetStateMachineInfo)
	}

	customer := r.Group("/api/customer")
	customer.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleCustomer), middleware.VerifiedRequired())
	{
		customer.POST("/orders", PlaceOrder)
		customer.GET("/orders", GetMyOrders)
		customer.GET("/orders/:id", GetOrderDetail)
		customer.DELETE("/orders/:id", CancelOrder)
	}

	agent := r.Group("/api/agent")
	agent.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleAgent), middleware.VerifiedRequired())
	{
		agent.GET("/orders/pending", GetPendingOrders)
		agent.PUT("/orders/:id/accept", AcceptOrder)
		agent.PUT("/orders/:id/deliver", DeliverOrder)
		agent.GET("/earnings", GetEarnings)
		agent.POST("/settlement", SubmitSettlement)
	}

	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.PUT("/users/:id/role", AdminChangeRole)
		admin.PUT("/users/:id/match", AdminMatchVerdict)
		admin.POST("/agents/set-all-paid", AdminSetAllPaid)
		admin.GET("/claims", AdminGetClaims)
	}

	return r
}

func createUser(t *testing.T, user models.User) *models.User {
	t.Helper()
	user.PasswordHash = "x"
	if err := config.DB.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &user
}

func tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := middleware.GenerateToken(user)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func fixedClock(t *testing.T, at time.Time) {
	t.Helper()
	timeNow = func() time.Time { return at }
}

func firstProduct(t *testing.T) models.Product {
	t.Helper()
	var p models.Product
	if err := config.DB.First(&p).Error; err != nil {
		t.Fatalf("load seeded product: %v", err)
	}
	return p
}

func TestPlaceOrderComputesTotals(t *testing.T) {
	r := setupTest(t)
	cust := createUser(t, models.User{Name: "Rahim", Email: "rahim@test.com", Phone: "01711111111", Role: models.RoleCustomer, Verified: true, Location: "Dhanmondi"})
	p := firstProduct(t)

	w := doRequest(t, r, http.MethodPost, "/api/customer/orders", tokenFor(t, cust), gin.H{
		"delivery_type":    "normal",
		"delivery_address": "House 7, Road 2",
		"items":            []gin.H{{"product_id": p.ID, "quantity": 3}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var order models.Order
	if err := config.DB.Preload("Items").First(&order).Error; err != nil {
		t.Fatalf("load order: %v", err)
	}
	wantSubtotal := p.Price * 3
	if order.Subtotal != wantSubtotal {
		t.Errorf("subtotal = %v, want %v", order.Subtotal, wantSubtotal)
	}
	if order.DeliveryCharge != 50 {
		t.Errorf("delivery charge = %v, want 50", order.DeliveryCharge)
	}
	if order.Total != order.Subtotal+order.DeliveryCharge {
		t.Errorf("total = %v, want subtotal+charge = %v", order.Total, order.Subtotal+order.DeliveryCharge)
	}
	if order.Status != models.StatusPending {
		t.Errorf("status = %s, want pending", order.Status)
	}
	if order.CustomerName != "Rahim" || order.CustomerPhone != "01711111111" {
		t.Errorf("customer snapshot missing: %+v", order)
	}
	if len(order.Items) != 1 || order.Items[0].Price != p.Price {
		t.Errorf("item price not snapshotted: %+v", order.Items)
	}

	// Address persisted as profile default.
	var fresh models.User
	config.DB.First(&fresh, cust.ID)
	if fresh.DeliveryAddress != "House 7, Road 2" {
		t.Errorf("delivery address not saved to profile: %q", fresh.DeliveryAddress)
	}
}

func TestPlaceOrderEmergencyCharge(t *testing.T) {
	r := setupTest(t)
	cust := createUser(t, models.User{Name: "Karim", Email: "karim@test.com", Role: models.RoleCustomer, Verified: true, Location: "Gulshan"})
	p := firstProduct(t)

	w := doRequest(t, r, http.MethodPost, "/api/customer/orders", tokenFor(t, cust), gin.H{
		"delivery_type":    "emergency",
		"delivery_address": "Flat 3B",
		"items":            []gin.H{{"product_id": p.ID, "quantity": 1}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var order models.Order
	config.DB.First(&order)
	if order.DeliveryCharge != 100 {
		t.Errorf("emergency charge = %v, want 100", order.DeliveryCharge)
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	r := setupTest(t)
	p := firstProduct(t)

	tests := []struct {
		name string
		user models.User
		body gin.H
	}{
		{
			"empty cart",
			models.User{Name: "A", Email: "a@test.com", Role: models.RoleCustomer, Verified: true, Location: "Mirpur"},
			gin.H{"delivery_address": "somewhere", "items": []gin.H{}},
		},
		{
			"missing zone",
			models.User{Name: "B", Email: "b@test.com", Role: models.RoleCustomer, Verified: true},
			gin.H{"delivery_address": "somewhere", "items": []gin.H{{"product_id": p.ID, "quantity": 1}}},
		},
		{
			"blank address",
			models.User{Name: "C", Email: "c@test.com", Role: models.RoleCustomer, Verified: true, Location: "Mirpur"},
			gin.H{"delivery_address": "   ", "items": []gin.H{{"product_id": p.ID, "quantity": 1}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := createUser(t, tt.user)
			w := doRequest(t, r, http.MethodPost, "/api/customer/orders", tokenFor(t, user), tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400, body = %s", w.Code, w.Body.String())
			}
		})
	}
}

func seedPendingOrder(t *testing.T, customerID uint, location string, deliveryType models.DeliveryType, createdAt time.Time) *models.Order {
	t.Helper()
	order := models.Order{
		CustomerID:      customerID,
		CustomerName:    "Test Customer",
		DeliveryType:    deliveryType,
		DeliveryAddress: "addr",
		Location:        location,
		Subtotal:        100,
		DeliveryCharge:  50,
		Total:           150,
		Status:          models.StatusPending,
	}
	if err := config.DB.Create(&order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	// CreatedAt is set by gorm; override for ordering tests.
	if err := config.DB.Model(&order).Update("created_at", createdAt).Error; err != nil {
		t.Fatalf("set created_at: %v", err)
	}
	return &order
}

func TestAcceptOrderFirstWriterWins(t *testing.T) {
	r := setupTest(t)
	fixedClock(t, time.Date(2024, 1, 15, 10, 0, 0, 0, time.Local))

	cust := createUser(t, models.User{Name: "Cust", Email: "cu@test.com", Role: models.RoleCustomer, Verified: true, Location: "Banani"})
	agent1 := createUser(t, models.User{Name: "Agent One", Email: "a1@test.com", Phone: "01811111111", Role: models.RoleAgent, Verified: true, IsPaidAgent: true, Location: "Banani"})
	agent2 := createUser(t, models.User{Name: "Agent Two", Email: "a2@test.com", Role: models.RoleAgent, Verified: true, IsPaidAgent: true, Location: "Banani"})
	order := seedPendingOrder(t, cust.ID, "Banani", models.DeliveryNormal, timeNow())

	w := doRequest(t, r, http.MethodPut, "/api/agent/orders/1/accept", tokenFor(t, agent1), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("first accept status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doRequest(t, r, http.MethodPut, "/api/agent/orders/1/accept", tokenFor(t, agent2), nil)
	if w.Code != http.StatusConflict && w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("second accept status = %d, want conflict, body = %s", w.Code, w.Body.String())
	}

	var fresh models.Order
	config.DB.First(&fresh, order.ID)
	if fresh.Status != models.StatusAccepted {
		t.Errorf("status = %s, want accepted", fresh.Status)
	}
	if fresh.AgentID == nil || *fresh.AgentID != agent1.ID {
		t.Errorf("agent_id = %v, want %d", fresh.AgentID, agent1.ID)
	}
	if fresh.AgentName != "Agent One" || fresh.AgentPhone != "01811111111" {
		t.Errorf("agent snapshot missing: %+v", fresh)
	}
	if fresh.AcceptedAt == nil {
		t.Error("accepted_at not stamped")
	}
}

func TestAcceptOrderOutsideDeliveryHours(t *testing.T) {
	r := setupTest(t)
	fixedClock(t, time.Date(2024, 1, 15, 3, 0, 0, 0, time.Local))

	cust := createUser(t, models.User{Name: "Cust", Email: "cu@test.com", Role: models.RoleCustomer, Verified: true})
	agent := createUser(t, models.User{Name: "Agent", Email: "ag@test.com", Role: models.RoleAgent, Verified: true, IsPaidAgent: true, Location: "Uttara"})
	seedPendingOrder(t, cust.ID, "Uttara", models.DeliveryNormal, timeNow())

	w := doRequest(t, r, http.MethodPut, "/api/agent/orders/1/accept", tokenFor(t, agent), nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body = %s", w.Code, w.Body.String())
	}
}

func TestAcceptOrderZoneMismatch(t *testing.T) {
	r := setupTest(t)
	fixedClock(t, time.Date(2024, 1, 15, 10, 0, 0, 0, time.Local))

	cust := createUser(t, models.User{Name: "Cust", Email: "cu@test.com", Role: models.RoleCustomer, Verified: true})
	agent := createUser(t, models.User{Name: "Agent", Email: "ag@test.com", Role: models.RoleAgent, Verified: true, IsPaidAgent: true, Location: "Mirpur"})
	seedPendingOrder(t, cust.ID, "Gulshan", models.DeliveryNormal, timeNow())

	w := doRequest(t, r, http.MethodPut, "/api/agent/orders/1/accept", tokenFor(t, agent), nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body = %s", w.Code, w.Body.String())
	}
}

func TestDeliverOrderOnlyAssignedAgent(t *testing.T) {
	r := setupTest(t)
	fixedClock(t, time.Date(2024, 1, 15, 10, 0, 0, 0, time.Local))

	cust := createUser(t, models.User{Name: "Cust", Email: "cu@test.com", Role: models.RoleCustomer, Verified: true})
	agent1 := createUser(t, models.User{Name: "Agent One", Email: "a1@test.com", Role: models.RoleAgent, Verified: true, IsPaidAgent: true, Location: "Wari"})
	agent2 := createUser(t, models.User{Name: "Agent Two", Email: "a2@test.com", Role: models.RoleAgent, Verified: true, IsPaidAgent: true, Location: "Wari"})
	seedPendingOrder(t, cust.ID, "Wari", models.DeliveryNormal, timeNow())

	if w := doRequest(t, r, http.MethodPut, "/api/agent/orders/1/accept", tokenFor(t, agent1), nil); w.Code != http.StatusOK {
		t.Fatalf("accept status = %d", w.Code)
	}

	// A different agent cannot deliver.
	if w := doRequest(t, r, http.MethodPut, "/api/agent/orders/1/deliver", tokenFor(t, agent2), nil); w.Code != http.StatusForbidden {
		t.Fatalf("foreign deliver status = %d, want 403", w.Code)
	}

	if w := doRequest(t, r, http.MethodPut, "/api/agent/orders/1/deliver", tokenFor(t, agent1), nil); w.Code != http.StatusOK {
		t.Fatalf("deliver status = %d", w.Code)
	}

	var fresh models.Order
	config.DB.First(&fresh, 1)
	if fresh.Status != models.StatusDelivered {
		t.Errorf("status = %s, want delivered", fresh.Status)
	}
	if fresh.DeliveredAt == nil {
		t.Error("delivered_at not stamped")
	}

	// Delivered is terminal.
	if w := doRequest(t, r, http.MethodPut, "/api/agent/orders/1/deliver", tokenFor(t, agent1), nil); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("re-deliver status = %d, want 422", w.Code)
	}
}

func TestDeliverPendingOrderRejected(t *testing.T) {
	r := setupTest(t)
	fixedClock(t, time.Date(2024, 1, 15, 10, 0, 0, 0, time.Local))

	cust := createUser(t, models.User{Name: "Cust", Email: "cu@test.com", Role: models.RoleCustomer, Verified: true})
	agent := createUser(t, models.User{Name: "Agent", Email: "ag@test.com", Role: models.RoleAgent, Verified: true, IsPaidAgent: true, Location: "Savar"})
	seedPendingOrder(t, cust.ID, "Savar", models.DeliveryNormal, timeNow())

	// No accept happened; the agent is not assigned.
	if w := doRequest(t, r, http.MethodPut, "/api/agent/orders/1/deliver", tokenFor(t, agent), nil); w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestCancelOrderOnlyWhilePending(t *testing.T) {
	r := setupTest(t)
	fixedClock(t, time.Date(2024, 1, 15, 10, 0, 0, 0, time.Local))

	cust := createUser(t, models.User{Name: "Cust", Email: "cu@test.com", Role: models.RoleCustomer, Verified: true, Location: "Ramna"})
	agent := createUser(t, models.User{Name: "Agent", Email: "ag@test.com", Role: models.RoleAgent, Verified: true, IsPaidAgent: true, Location: "Ramna"})

	seedPendingOrder(t, cust.ID, "Ramna", models.DeliveryNormal, timeNow())
	seedPendingOrder(t, cust.ID, "Ramna", models.DeliveryNormal, timeNow())

	// Cancel a pending order: record removed entirely.
	if w := doRequest(t, r, http.MethodDelete, "/api/customer/orders/1", tokenFor(t, cust), nil); w.Code != http.StatusOK {
		t.Fatalf("cancel status = %d, body = %s", w.Code, w.Body.String())
	}
	var count int64
	config.DB.Model(&models.Order{}).Where("id = ?", 1).Count(&count)
	if count != 0 {
		t.Error("cancelled order still present")
	}

	// Accepted orders cannot be cancelled.
	if w := doRequest(t, r, http.MethodPut, "/api/agent/orders/2/accept", tokenFor(t, agent), nil); w.Code != http.StatusOK {
		t.Fatalf("accept status = %d", w.Code)
	}
	if w := doRequest(t, r, http.MethodDelete, "/api/customer/orders/2", tokenFor(t, cust), nil); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("cancel accepted status = %d, want 422", w.Code)
	}
}

func TestPendingQueueOrdering(t *testing.T) {
	r := setupTest(t)
	fixedClock(t, time.Date(2024, 1, 15, 12, 0, 0, 0, time.Local))

	cust := createUser(t, models.User{Name: "Cust", Email: "cu@test.com", Role: models.RoleCustomer, Verified: true})
	agent := createUser(t, models.User{Name: "Agent", Email: "ag@test.com", Role: models.RoleAgent, Verified: true, IsPaidAgent: true, Location: "Motijheel"})

	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local)
	a := seedPendingOrder(t, cust.ID, "Motijheel", models.DeliveryNormal, day.Add(10*time.Hour))
	b := seedPendingOrder(t, cust.ID, "Motijheel", models.DeliveryEmergency, day.Add(9*time.Hour))
	cOrd := seedPendingOrder(t, cust.ID, "Motijheel", models.DeliveryEmergency, day.Add(11*time.Hour))

	w := doRequest(t, r, http.MethodGet, "/api/agent/orders/pending", tokenFor(t, agent), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Orders []models.Order `json:"orders"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Orders) != 3 {
		t.Fatalf("orders = %d, want 3", len(resp.Orders))
	}
	want := []uint{cOrd.ID, b.ID, a.ID}
	for i, o := range resp.Orders {
		if o.ID != want[i] {
			t.Errorf("position %d: order %d, want %d (emergency first, newest first)", i, o.ID, want[i])
		}
	}
}

func TestUnpaidAgentBlocked(t *testing.T) {
	r := setupTest(t)
	fixedClock(t, time.Date(2024, 1, 15, 10, 0, 0, 0, time.Local))

	cust := createUser(t, models.User{Name: "Cust", Email: "cu@test.com", Role: models.RoleCustomer, Verified: true})
	agent := createUser(t, models.User{Name: "Agent", Email: "ag@test.com", Role: models.RoleAgent, Verified: true, IsPaidAgent: false, Location: "Lalbagh"})
	seedPendingOrder(t, cust.ID, "Lalbagh", models.DeliveryNormal, timeNow())

	if w := doRequest(t, r, http.MethodGet, "/api/agent/orders/pending", tokenFor(t, agent), nil); w.Code != http.StatusForbidden {
		t.Errorf("pending list status = %d, want 403", w.Code)
	}
	if w := doRequest(t, r, http.MethodPut, "/api/agent/orders/1/accept", tokenFor(t, agent), nil); w.Code != http.StatusForbidden {
		t.Errorf("accept status = %d, want 403", w.Code)
	}
}
