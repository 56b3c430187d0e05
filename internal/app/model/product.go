package model

import (
	"time"

	"gorm.io/gorm"
)

type ProductCategory string

const (
	CategoryApparel     ProductCategory = "apparel"
	CategoryAccessories ProductCategory = "accessories"
	CategoryHome        ProductCategory = "home"
	CategoryBeauty      ProductCategory = "beauty"
)

type Product struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	Name          string          `gorm:"not null" json:"name"`
	Slug          string          `gorm:"uniqueIndex;size:200;not null" json:"slug"`
	Description   string          `gorm:"type:text" json:"description"`
	Price         float64         `gorm:"not null" json:"price"`
	DiscountPrice *float64        `json:"discount_price,omitempty"`
	Category      ProductCategory `gorm:"type:varchar(50)" json:"category"`
	StockQuantity int             `gorm:"default:0" json:"stock_quantity"`
	IsAvailable   bool            `gorm:"default:true" json:"is_available"`
	IsArchived    bool            `gorm:"default:false" json:"is_archived"`
	IsFeatured    bool            `gorm:"default:false;index" json:"is_featured"`
	IsLucky       bool            `gorm:"default:false;index" json:"is_lucky"`
	ImageURL      string          `json:"image_url"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	Variants   []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	OrderItems []OrderItem      `gorm:"foreignKey:ProductID" json:"-"`
	CartItems  []CartItem       `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// EffectivePrice is the unit price actually charged at checkout:
// the discount price when one is set, the list price otherwise.
func (p *Product) EffectivePrice() float64 {
	if p.DiscountPrice != nil && *p.DiscountPrice > 0 && *p.DiscountPrice < p.Price {
		return *p.DiscountPrice
	}
	return p.Price
}

// Purchasable reports whether the product may appear in carts and orders at all.
// Stock is checked separately, per variant when one is selected.
func (p *Product) Purchasable() bool {
	return p.IsAvailable && !p.IsArchived
}
