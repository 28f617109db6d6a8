package models

import "time"

// OrderStatus represents all possible states of a delivery order
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusAccepted  OrderStatus = "accepted"
	StatusDelivered OrderStatus = "delivered"
)

// DeliveryType determines the delivery charge and claim priority
type DeliveryType string

const (
	DeliveryNormal    DeliveryType = "normal"
	DeliveryEmergency DeliveryType = "emergency"
)

type Order struct {
	ID uint `json:"id" gorm:"primaryKey"`

	// Customer snapshot taken at creation time; later profile edits do not
	// propagate here.
	CustomerID    uint   `json:"customer_id" gorm:"not null;index"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`

	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`

	DeliveryType    DeliveryType `json:"delivery_type" gorm:"not null;default:'normal'"`
	DeliveryAddress string       `json:"delivery_address" gorm:"not null"`
	SpecialRequest  string       `json:"special_request"`
	Location        string       `json:"location" gorm:"not null;index"`

	// Computed once at creation, never recomputed.
	Subtotal       float64 `json:"subtotal"`
	DeliveryCharge float64 `json:"delivery_charge"`
	Total          float64 `json:"total"`

	Status OrderStatus `json:"status" gorm:"not null;default:'pending';index"`

	// Populated only once the order advances past pending.
	AgentID     *uint      `json:"agent_id"`
	Agent       *User      `json:"agent,omitempty" gorm:"foreignKey:AgentID"`
	AgentName   string     `json:"agent_name"`
	AgentPhone  string     `json:"agent_phone"`
	AcceptedAt  *time.Time `json:"accepted_at"`
	DeliveredAt *time.Time `json:"delivered_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type OrderItem struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	OrderID   uint    `json:"order_id" gorm:"not null;index"`
	ProductID uint    `json:"product_id" gorm:"not null"`
	Quantity  int     `json:"quantity" gorm:"not null"`
	Price     float64 `json:"price" gorm:"not null"` // snapshot price at time of order
	Name      string  `json:"name"`                  // snapshot name
	Unit      string  `json:"unit"`
}
