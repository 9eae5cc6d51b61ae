package models

import "time"

type OrderStatus string

const (
	// Order statuses follow the storefront's simple two-step flow.
	OrderStatusPending   OrderStatus = "pendiente" // Placed, awaiting delivery
	OrderStatusDelivered OrderStatus = "entregado" // Handed over to the customer
)

type Order struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	Reference  string      `gorm:"uniqueIndex" json:"reference"`
	UserID     *uint       `json:"user_id,omitempty"`
	User       *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	GuestEmail string      `json:"guest_email,omitempty"` // set only for guest checkout
	Items      []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Total      float64     `json:"total"`
	Status     OrderStatus `gorm:"type:VARCHAR(20);default:'pendiente'" json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
}

// OrderItem is a historical snapshot: name and unit price are copied
// from the cart line at checkout time and never updated afterwards,
// even if the product is later edited or deleted.
type OrderItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	OrderID     uint    `gorm:"index" json:"order_id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
}
