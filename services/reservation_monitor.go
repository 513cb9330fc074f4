package services

import (
	"time"

	"github.com/yeremiapane/restaurant-reservation/events"
	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/utils"
	"gorm.io/gorm"
)

// ReservationMonitor periodically scans for reservations still pending or
// confirmed past their start plus a grace period and announces them so the
// host stand can chase or mark them no-show. It changes no state itself.
type ReservationMonitor struct {
	DB       *gorm.DB
	StopChan chan struct{}
	Interval time.Duration
	Grace    time.Duration
}

func NewReservationMonitor(db *gorm.DB, grace time.Duration) *ReservationMonitor {
	return &ReservationMonitor{
		DB:       db,
		StopChan: make(chan struct{}),
		Interval: 1 * time.Minute,
		Grace:    grace,
	}
}

func (m *ReservationMonitor) Start() {
	go func() {
		ticker := time.NewTicker(m.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.sweep()
			case <-m.StopChan:
				return
			}
		}
	}()
}

func (m *ReservationMonitor) Stop() {
	close(m.StopChan)
}

func (m *ReservationMonitor) sweep() {
	cutoff := time.Now().UTC().Add(-m.Grace)

	var overdue []models.Reservation
	err := m.DB.Where("status IN ?", []string{models.StatusPending, models.StatusConfirmed}).
		Where("reservation_time < ?", cutoff).
		Find(&overdue).Error
	if err != nil {
		utils.ErrorLogger.Printf("reservation monitor: sweep failed: %v", err)
		return
	}

	for _, r := range overdue {
		events.BroadcastReservationEvent(events.DomainEvent{
			Type:          events.EventReservationOverdue,
			ReservationID: r.ID,
			Status:        r.Status,
			TableID:       r.TableID,
		})
	}

	if len(overdue) > 0 {
		utils.InfoLogger.Printf("reservation monitor: %d overdue reservation(s) announced", len(overdue))
	}
}
