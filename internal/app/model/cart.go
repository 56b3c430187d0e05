package model

import (
	"time"
)

// Cart belongs to exactly one identity: an authenticated user or an anonymous
// session token. Guest carts are merged into the user cart at login and then
// deleted, so carts are hard-deleted rather than soft-deleted.
type Cart struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	UserID       *uint     `gorm:"uniqueIndex" json:"user_id,omitempty"`
	SessionToken *string   `gorm:"uniqueIndex;size:64" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Cart) TableName() string {
	return "carts"
}

// CartItem is unique per (cart, product, variant) — enforced by
// lookup-before-insert in the cart service.
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CartID    uint      `gorm:"not null;index" json:"cart_id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	VariantID *uint     `gorm:"index" json:"variant_id,omitempty"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Cart    Cart            `gorm:"foreignKey:CartID" json:"-"`
	Product Product         `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Variant *ProductVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
