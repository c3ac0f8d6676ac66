package models

import "time"

// Configuration is the single restaurant settings record.
type Configuration struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	RestaurantName string    `gorm:"type:varchar(255);not null" json:"restaurant_name"`
	Phone          string    `gorm:"type:varchar(32)" json:"phone"`
	Email          string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	Address        string    `gorm:"type:text" json:"address"`
	TaxID          string    `gorm:"type:varchar(32)" json:"tax_id,omitempty"`
	Currency       string    `gorm:"type:varchar(8);not null;default:'EUR'" json:"currency"`
	TaxRate        float64   `gorm:"type:decimal(5,2);not null;default:0" json:"tax_rate"`
	TicketFooter   string    `gorm:"type:text" json:"ticket_footer,omitempty"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}
