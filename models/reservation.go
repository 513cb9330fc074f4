package models

import (
	"encoding/json"
	"time"
)

// Reservation lifecycle statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusSeated    = "seated"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

// BlockingStatuses are the statuses that occupy a table for their interval.
// Completed, cancelled and no-show reservations never block a slot.
var BlockingStatuses = []string{StatusPending, StatusConfirmed, StatusSeated}

// ValidStatuses lists every status accepted from callers.
var ValidStatuses = []string{
	StatusPending, StatusConfirmed, StatusSeated,
	StatusCompleted, StatusCancelled, StatusNoShow,
}

func IsValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type Reservation struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ReservationCode string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"reservation_code"`
	CustomerID      *uint     `gorm:"index" json:"customer_id,omitempty"`
	Customer        *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`

	// Snapshot of the customer's contact details at booking time. The linked
	// Customer row may change later; these never do.
	CustomerName string  `gorm:"type:varchar(255);not null" json:"customer_name"`
	PhoneNumber  string  `gorm:"type:varchar(50);not null" json:"phone_number"`
	Email        *string `gorm:"type:varchar(255)" json:"email,omitempty"`

	TableID uint  `gorm:"index;not null" json:"table_id"`
	Table   Table `gorm:"foreignKey:TableID" json:"table"`

	// ReservationDate is local midnight of the calendar day, stored as a UTC
	// instant. ReservationTime always falls on ReservationDate.
	ReservationDate time.Time `gorm:"not null;index" json:"reservation_date"`
	ReservationTime time.Time `gorm:"not null;index" json:"reservation_time"`
	Duration        int       `gorm:"not null;default:120" json:"duration"`
	PartySize       int       `gorm:"not null" json:"party_size"`

	Status             string   `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	SpecialRequest     *string  `gorm:"type:text" json:"special_request,omitempty"`
	DepositAmount      *float64 `gorm:"type:decimal(10,2)" json:"deposit_amount,omitempty"`
	Notes              *string  `gorm:"type:text" json:"notes,omitempty"`
	Tags               string   `gorm:"type:text" json:"-"`
	CancellationReason *string  `gorm:"type:varchar(255)" json:"cancellation_reason,omitempty"`

	CreatedBy *uint `gorm:"index" json:"created_by,omitempty"`
	Creator   *User `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	SeatedAt    *time.Time `json:"seated_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// End returns the exclusive end of the reservation's interval.
func (r *Reservation) End() time.Time {
	return r.ReservationTime.Add(time.Duration(r.Duration) * time.Minute)
}

// Overlaps applies the half-open interval test against [start, end).
// Back-to-back reservations share a boundary and do not overlap.
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return r.ReservationTime.Before(end) && r.End().After(start)
}

// IsTerminal reports whether the reservation reached a state with no
// outgoing transitions.
func (r *Reservation) IsTerminal() bool {
	return r.Status == StatusCompleted || r.Status == StatusCancelled
}

// GetTags decodes the JSON-encoded tag set. An empty column yields nil.
func (r *Reservation) GetTags() []string {
	if r.Tags == "" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(r.Tags), &tags); err != nil {
		return nil
	}
	return tags
}

// SetTags stores the tag set as JSON text.
func (r *Reservation) SetTags(tags []string) {
	if len(tags) == 0 {
		r.Tags = ""
		return
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return
	}
	r.Tags = string(data)
}
