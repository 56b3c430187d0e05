package model

import (
	"time"

	"gorm.io/gorm"
)

// ProductVariant is one purchasable configuration of a product (e.g. رنگ: قرمز).
// When a variant is selected, its stock — not the product's — governs purchasability.
type ProductVariant struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	ProductID     uint           `gorm:"index;not null" json:"product_id"`
	Name          string         `gorm:"size:100;not null" json:"name"`
	Value         string         `gorm:"size:100;not null" json:"value"`
	PriceDelta    float64        `gorm:"default:0" json:"price_delta"`
	StockQuantity int            `gorm:"default:0" json:"stock_quantity"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (ProductVariant) TableName() string {
	return "product_variants"
}
