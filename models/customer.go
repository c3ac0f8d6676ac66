package models

import (
	"time"
)

type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Phone     string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"phone"`
	Email     string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	Address   string    `gorm:"type:text" json:"address"`
	Notes     string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// AddressDetails decodes the stored address microformat.
func (c *Customer) AddressDetails() Address {
	return DecodeAddress(c.Address)
}
