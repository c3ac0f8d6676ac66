package models

import (
	"time"
)

type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"index;not null" json:"order_id"`

	ProductName string  `gorm:"type:varchar(255);not null" json:"product_name"`
	VariantName *string `gorm:"type:varchar(255)" json:"variant_name,omitempty"`
	Quantity    int     `gorm:"not null;default:1" json:"quantity"`
	TotalPrice  float64 `gorm:"type:decimal(10,2);not null;default:0" json:"total_price"`

	// Menu fields are set only when the line belongs to a bundled menu.
	// MenuPrice and MenuTax are per group, repeated on every line of it.
	MenuID          *string  `gorm:"type:varchar(64);index" json:"menu_id,omitempty"`
	MenuSecondaryID *string  `gorm:"type:varchar(64)" json:"menu_secondary_id,omitempty"`
	MenuName        *string  `gorm:"type:varchar(255)" json:"menu_name,omitempty"`
	MenuPrice       *float64 `gorm:"type:decimal(10,2)" json:"menu_price,omitempty"`
	MenuTax         *float64 `gorm:"type:decimal(10,2)" json:"menu_tax,omitempty"`
	Supplement      *float64 `gorm:"type:decimal(10,2)" json:"supplement,omitempty"`

	Complements []OrderItemComplement `gorm:"foreignKey:OrderItemID;constraint:OnDelete:CASCADE" json:"complements"`
	CreatedAt   time.Time             `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time             `gorm:"not null" json:"updated_at"`
}

// IsMenuItem reports whether the line is part of a menu group.
func (i *OrderItem) IsMenuItem() bool {
	return i.MenuID != nil
}

// OrderItemComplement is an add-on picked for a line (extra sauce, no onion...).
type OrderItemComplement struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	OrderItemID uint    `gorm:"index;not null" json:"order_item_id"`
	ItemName    string  `gorm:"type:varchar(255);not null" json:"item_name"`
	Price       float64 `gorm:"type:decimal(10,2);not null;default:0" json:"price"`
}
