package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a product record in the store.
type Product struct {
	ID        string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string          `json:"name" gorm:"not null;size:255;index"`
	Price     decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	Quantity  int             `json:"quantity" gorm:"not null;default:0"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName returns the table name for Product.
func (Product) TableName() string {
	return "products"
}

// BeforeCreate assigns a UUID when the record has no ID yet.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// CreateProductRequest carries the fields needed to create a product.
type CreateProductRequest struct {
	Name     string          `json:"name" validate:"required,min=1,max=255"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity" validate:"gte=0"`
}

// ProductRef identifies a product in bulk lookups.
type ProductRef struct {
	ID string `json:"id" validate:"required"`
}

// QuantityAdjustment is the amount to subtract from one product's stock.
type QuantityAdjustment struct {
	ID       string `json:"id" validate:"required"`
	Quantity int    `json:"quantity"`
}
