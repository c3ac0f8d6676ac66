package models

import (
	"fmt"
	"time"
)

// Order statuses. Stored lowercase, compared case-insensitively.
const (
	OrderStatusPending          = "pending"
	OrderStatusSentToKitchen    = "sent to kitchen"
	OrderStatusReadyForDelivery = "ready for delivery"
	OrderStatusOutForDelivery   = "out for delivery"
	OrderStatusDelivered        = "delivered"
	OrderStatusCompleted        = "completed"
	OrderStatusCancelled        = "cancelled"
)

// Order types
const (
	OrderTypeDelivery = "delivery"
	OrderTypePickup   = "pickup"
	OrderTypeDineIn   = "dine-in"
)

// PaymentTypePending marks an order nobody has charged yet.
const PaymentTypePending = "pending"

type Order struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	OrderID           string          `gorm:"type:varchar(32);index;not null" json:"order_id"`
	Status            string          `gorm:"type:varchar(32);index;not null;default:'pending'" json:"status"`
	OrderType         string          `gorm:"type:varchar(16);not null" json:"order_type"`
	PaymentType       string          `gorm:"type:varchar(255);not null;default:'pending'" json:"payment_type"`
	CustomerID        *uint           `gorm:"index" json:"customer_id,omitempty"`
	Customer          *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	CustomerName      string          `gorm:"type:varchar(255)" json:"customer_name"`
	CustomerPhone     string          `gorm:"type:varchar(32);index" json:"customer_phone"`
	CustomerAddress   string          `gorm:"type:text" json:"customer_address"`
	DeliveryPersonID  *uint           `gorm:"index" json:"delivery_person_id,omitempty"`
	DeliveryPerson    *DeliveryPerson `gorm:"foreignKey:DeliveryPersonID" json:"delivery_person,omitempty"`
	Items             []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Notes             string          `gorm:"type:text" json:"notes,omitempty"`
	CancellationNote  string          `gorm:"type:text" json:"cancellation_note,omitempty"`
	CreatedAt         time.Time       `gorm:"index;not null" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"index;not null" json:"updated_at"`
	ReadyAt           *time.Time      `json:"ready_at,omitempty"`
	AssignedAt        *time.Time      `json:"assigned_at,omitempty"`
	DeliveredAt       *time.Time      `json:"delivered_at,omitempty"`
	CancelledAt       *time.Time      `json:"cancelled_at,omitempty"`
}

// DisplayNumber formats the human-facing order number used on tickets.
func (o *Order) DisplayNumber() string {
	return fmt.Sprintf("#%s", o.OrderID)
}

// IsDelivery reports whether the order leaves the restaurant with a rider.
func (o *Order) IsDelivery() bool {
	return o.OrderType == OrderTypeDelivery
}
