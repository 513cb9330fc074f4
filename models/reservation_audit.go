package models

import "time"

// Audit actions.
const (
	AuditCreated       = "created"
	AuditUpdated       = "updated"
	AuditCancelled     = "cancelled"
	AuditStatusChanged = "status_changed"
	AuditDeleted       = "deleted"
)

// ReservationAudit is an append-only record of a reservation mutation.
// Rows are never updated or deleted by the application.
type ReservationAudit struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ReservationID uint      `gorm:"index;not null" json:"reservation_id"`
	Action        string    `gorm:"type:varchar(50);not null" json:"action"`
	UserID        *uint     `gorm:"index" json:"user_id,omitempty"`
	User          *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Changes       string    `gorm:"type:text" json:"changes"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
}
