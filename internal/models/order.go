package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatusPending is the status of a freshly created order.
const OrderStatusPending = "pending"

// OrderItem represents a single item within an order.
type OrderItem struct {
	ID        uint            `json:"-" gorm:"primaryKey"`
	OrderID   string          `json:"-" gorm:"type:varchar(36);index;not null"`
	ProductID string          `json:"product_id" gorm:"type:varchar(36);not null"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"` // Price at the time of order
}

// TableName returns the table name for OrderItem.
func (OrderItem) TableName() string {
	return "order_items"
}

// Order represents a customer order.
type Order struct {
	ID         string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CustomerID string          `json:"customer_id" gorm:"type:varchar(64);index"`
	Items      []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
	Total      decimal.Decimal `json:"total" gorm:"type:numeric(12,2);not null"`
	Status     string          `json:"status" gorm:"size:32;not null"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// TableName returns the table name for Order.
func (Order) TableName() string {
	return "orders"
}

// BeforeCreate assigns a UUID when the order has no ID yet.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}

// CreateOrderRequest is the input of the order use case.
type CreateOrderRequest struct {
	CustomerID string               `json:"customer_id" validate:"required"`
	Products   []QuantityAdjustment `json:"products" validate:"required,min=1,dive"`
}
