package models

import "time"

// User is the staff member acting on a reservation. Authentication lives
// outside this service; the identity is kept for audit attribution.
type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"type:varchar(255);not null" json:"name"`
	Email     string `gorm:"type:varchar(255);unique;not null" json:"email"`
	Role      string `gorm:"type:varchar(255);not null" json:"role"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
