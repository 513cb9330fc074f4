package services

import (
	"encoding/json"

	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/utils"
	"gorm.io/gorm"
)

// AuditService appends immutable audit rows for reservation mutations.
type AuditService struct {
	DB *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{DB: db}
}

// RecordTx writes an audit row inside the caller's transaction. The row
// commits or rolls back together with the mutation it describes.
func (a *AuditService) RecordTx(tx *gorm.DB, reservationID uint, action string, userID *uint, changes map[string]interface{}) error {
	entry := models.ReservationAudit{
		ReservationID: reservationID,
		Action:        action,
		UserID:        userID,
		Changes:       encodeChanges(changes),
	}
	return tx.Create(&entry).Error
}

// Record writes an audit row outside any transaction. A failure is logged
// as a warning and never propagated: an audit miss must not erase a valid
// booking.
func (a *AuditService) Record(reservationID uint, action string, userID *uint, changes map[string]interface{}) {
	if err := a.RecordTx(a.DB, reservationID, action, userID, changes); err != nil {
		utils.ErrorLogger.Printf("audit write failed for reservation %d (%s): %v", reservationID, action, err)
	}
}

// History returns the audit trail for a reservation, newest first.
func (a *AuditService) History(reservationID uint) ([]models.ReservationAudit, error) {
	var entries []models.ReservationAudit
	err := a.DB.Where("reservation_id = ?", reservationID).
		Order("created_at desc, id desc").
		Find(&entries).Error
	return entries, err
}

func encodeChanges(changes map[string]interface{}) string {
	if len(changes) == 0 {
		return "{}"
	}
	data, err := json.Marshal(changes)
	if err != nil {
		return "{}"
	}
	return string(data)
}
