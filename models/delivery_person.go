package models

import "time"

type DeliveryPerson struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Phone     string    `gorm:"type:varchar(32);not null" json:"phone"`
	Email     string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	Vehicle   string    `gorm:"type:varchar(64)" json:"vehicle,omitempty"`
	Address   string    `gorm:"type:text" json:"address,omitempty"`
	Active    bool      `gorm:"not null" json:"active"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
