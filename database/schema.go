package database

import (
	"github.com/yeremiapane/restaurant-reservation/utils"
	"gorm.io/gorm"
)

// EnsureIndexes creates the composite indexes the overlap queries depend on.
// AutoMigrate covers single-column indexes; the hot path filters on
// (table_id, status, reservation_time) together.
func EnsureIndexes(db *gorm.DB) error {
	statements := []string{
		"CREATE INDEX idx_reservations_slot ON reservations (table_id, status, reservation_time)",
		"CREATE INDEX idx_reservations_day ON reservations (reservation_date, status)",
		"CREATE INDEX idx_audits_reservation ON reservation_audits (reservation_id, created_at)",
	}

	// MySQL has no IF NOT EXISTS for indexes; a duplicate-name error on a
	// re-run is expected and skipped.
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			utils.ErrorLogger.Printf("Error creating index: %v\nStatement: %s", err, stmt)
			continue
		}
	}

	utils.InfoLogger.Printf("Reservation indexes ensured")
	return nil
}
