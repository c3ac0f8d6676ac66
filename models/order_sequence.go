package models

// OrderSequence holds the last order number handed out on a given day.
type OrderSequence struct {
	Day        string `gorm:"type:varchar(10);primaryKey" json:"day"`
	LastNumber int    `gorm:"not null" json:"last_number"`
}
