package services

import (
	"time"

	"github.com/yeremiapane/restaurant-reservation/models"
	"gorm.io/gorm"
)

// defaultFetchWindowMinutes is the fallback fetch window when no duration cap
// was supplied at construction.
const defaultFetchWindowMinutes = 480

// AvailabilityResult reports whether a table is free for an interval and
// which reservations block it when it is not.
type AvailabilityResult struct {
	Available bool                 `json:"available"`
	Conflicts []models.Reservation `json:"conflicts"`
}

// AvailabilityService decides whether a table is free for a requested
// [start, start+duration) interval. Read-only.
type AvailabilityService struct {
	DB    *gorm.DB
	Times *TimeService

	// MaxDuration is the configured upper bound on any reservation's length,
	// in minutes. It bounds how far back a candidate reservation can start
	// and still reach into the requested interval.
	MaxDuration int
}

func NewAvailabilityService(db *gorm.DB, times *TimeService, maxDuration int) *AvailabilityService {
	if maxDuration <= 0 {
		maxDuration = defaultFetchWindowMinutes
	}
	return &AvailabilityService{DB: db, Times: times, MaxDuration: maxDuration}
}

// CheckTableAvailability resolves date and time strings, then checks the
// interval against all non-cancelled reservations on the table. Pass
// excludeReservationID != 0 when re-checking a reservation being edited.
func (s *AvailabilityService) CheckTableAvailability(tableID uint, dateStr, timeStr string, duration int, excludeReservationID uint) (*AvailabilityResult, error) {
	return s.CheckTableAvailabilityTx(s.DB, tableID, dateStr, timeStr, duration, excludeReservationID)
}

// CheckTableAvailabilityTx is the same check bound to a caller-supplied
// transaction, so the decision and the subsequent insert share one view.
func (s *AvailabilityService) CheckTableAvailabilityTx(tx *gorm.DB, tableID uint, dateStr, timeStr string, duration int, excludeReservationID uint) (*AvailabilityResult, error) {
	start, err := s.Times.CombineDateTime(dateStr, timeStr)
	if err != nil {
		return nil, err
	}
	return s.checkInterval(tx, tableID, start, duration, excludeReservationID)
}

func (s *AvailabilityService) checkInterval(tx *gorm.DB, tableID uint, start time.Time, duration int, excludeReservationID uint) (*AvailabilityResult, error) {
	end := start.Add(time.Duration(duration) * time.Minute)

	// Fetch a superset: anything starting before the requested end and late
	// enough that it could still be running at the requested start. The
	// precise overlap test runs in memory.
	earliest := start.Add(-time.Duration(s.MaxDuration) * time.Minute)

	query := tx.Where("table_id = ?", tableID).
		Where("status IN ?", models.BlockingStatuses).
		Where("reservation_time < ?", end).
		Where("reservation_time > ?", earliest)
	if excludeReservationID != 0 {
		query = query.Where("id <> ?", excludeReservationID)
	}

	var candidates []models.Reservation
	if err := query.Find(&candidates).Error; err != nil {
		return nil, err
	}

	conflicts := make([]models.Reservation, 0)
	for _, r := range candidates {
		if r.Overlaps(start, end) {
			conflicts = append(conflicts, r)
		}
	}

	return &AvailabilityResult{
		Available: len(conflicts) == 0,
		Conflicts: conflicts,
	}, nil
}
