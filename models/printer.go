package models

import "time"

// Printer roles
const (
	PrinterRoleKitchen  = "kitchen"
	PrinterRoleReceipt  = "receipt"
	PrinterRoleDelivery = "delivery"
)

// Printer stores where tickets go. The backend never talks to the device.
type Printer struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"type:varchar(100);not null" json:"name"`
	Connection string    `gorm:"type:varchar(16);not null;default:'network'" json:"connection"`
	Address    string    `gorm:"type:varchar(255)" json:"address"`
	Port       int       `json:"port"`
	Role       string    `gorm:"type:varchar(16);index;not null" json:"role"`
	PaperWidth int       `gorm:"not null;default:80" json:"paper_width"`
	IsDefault  bool      `gorm:"not null;default:false" json:"is_default"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}
