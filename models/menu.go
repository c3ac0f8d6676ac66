package models

import "time"

type MenuItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);index;not null" json:"name"`
	Category    string    `gorm:"type:varchar(100)" json:"category"`
	Price       float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Tax         float64   `gorm:"type:decimal(10,2);not null;default:0" json:"tax"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Available   bool      `gorm:"not null" json:"available"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
