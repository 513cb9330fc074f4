package models

import "time"

// Table statuses reflect the current floor state. They are display state only;
// availability for a time slot is always decided from reservations.
const (
	TableAvailable = "available"
	TableReserved  = "reserved"
	TableOccupied  = "occupied"
)

type Table struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TableNumber string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"table_number"`
	Capacity    int       `gorm:"not null" json:"capacity"`
	MinCapacity int       `gorm:"not null;default:1" json:"min_capacity"`
	Floor       string    `gorm:"type:varchar(50)" json:"floor"`
	Location    string    `gorm:"type:varchar(100)" json:"location"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	Status      string    `gorm:"type:varchar(50);not null;default:'available'" json:"status"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

// Fits reports whether a party of the given size should be offered this table.
func (t *Table) Fits(partySize int) bool {
	return partySize >= t.MinCapacity && partySize <= t.Capacity
}
