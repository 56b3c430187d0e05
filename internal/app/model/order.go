package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"    // created, awaiting payment
	OrderStatusProcessing OrderStatus = "processing" // payment verified
	OrderStatusCompleted  OrderStatus = "completed"  // shipped and settled
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Order snapshots its recipient/shipping fields instead of referencing the
// address book, so later address edits never alter past orders.
type Order struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	UserID           *uint          `gorm:"index" json:"user_id,omitempty"`
	TotalAmount      float64        `gorm:"not null" json:"total_amount"`
	Status           OrderStatus    `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	PaymentAuthority string         `gorm:"type:varchar(64);index" json:"payment_authority,omitempty"`
	PaymentRefID     string         `gorm:"type:varchar(64)" json:"payment_ref_id,omitempty"`
	PaidAt           *time.Time     `json:"paid_at,omitempty"`
	RecipientName    string         `gorm:"size:100;not null" json:"recipient_name"`
	RecipientPhone   string         `gorm:"size:15;not null" json:"recipient_phone"`
	Province         string         `gorm:"size:100" json:"province"`
	City             string         `gorm:"size:100" json:"city"`
	PostalCode       string         `gorm:"size:10" json:"postal_code"`
	AddressLine      string         `gorm:"type:text;not null" json:"address_line"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	User  *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is a frozen snapshot of a line item at purchase time; its unit
// price is decoupled from the live product price.
type OrderItem struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	OrderID         uint           `gorm:"not null;index" json:"order_id"`
	ProductID       uint           `gorm:"not null;index" json:"product_id"`
	VariantID       *uint          `gorm:"index" json:"variant_id,omitempty"`
	Quantity        int            `gorm:"not null" json:"quantity"`
	UnitPrice       float64        `gorm:"not null" json:"unit_price"`
	VariantSnapshot string         `gorm:"type:text" json:"variant_snapshot,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Order   Order           `gorm:"foreignKey:OrderID" json:"-"`
	Product Product         `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Variant *ProductVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
