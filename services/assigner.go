package services

import (
	"github.com/yeremiapane/restaurant-reservation/models"
	"gorm.io/gorm"
)

// AssignRequest describes what the party needs from a table.
type AssignRequest struct {
	Date                 string
	Time                 string
	Duration             int
	PartySize            int
	Floor                string // optional, restricts the candidate pool
	PreferredTableID     uint   // optional, wins if free and adequate
	ExcludeReservationID uint   // optional, set when re-assigning an edit
}

// TableAssigner picks the best free table for a party when the caller does
// not specify one. Assignment is greedy: the smallest adequate free table is
// taken so large tables stay available for large parties. Each request
// re-queries current state; there is no cross-request optimization.
type TableAssigner struct {
	DB           *gorm.DB
	Availability *AvailabilityService
}

func NewTableAssigner(db *gorm.DB, availability *AvailabilityService) *TableAssigner {
	return &TableAssigner{DB: db, Availability: availability}
}

// AutoAssign returns the chosen table, or nil when no candidate is free.
// Callers surface nil as a conflict ("no tables available").
func (a *TableAssigner) AutoAssign(req AssignRequest) (*models.Table, error) {
	return a.AutoAssignTx(a.DB, req)
}

// AutoAssignTx runs the same search inside a caller-supplied transaction.
func (a *TableAssigner) AutoAssignTx(tx *gorm.DB, req AssignRequest) (*models.Table, error) {
	query := tx.Model(&models.Table{}).
		Where("is_active = ?", true).
		Where("min_capacity <= ?", req.PartySize).
		Where("capacity >= ?", req.PartySize)
	if req.Floor != "" {
		query = query.Where("floor = ?", req.Floor)
	}

	var candidates []models.Table
	if err := query.Order("capacity asc, table_number asc").Find(&candidates).Error; err != nil {
		return nil, err
	}

	// Preferred table first, when it made the pool.
	if req.PreferredTableID != 0 {
		for i := range candidates {
			if candidates[i].ID != req.PreferredTableID {
				continue
			}
			res, err := a.Availability.CheckTableAvailabilityTx(tx, candidates[i].ID,
				req.Date, req.Time, req.Duration, req.ExcludeReservationID)
			if err != nil {
				return nil, err
			}
			if res.Available {
				return &candidates[i], nil
			}
			break
		}
	}

	for i := range candidates {
		if candidates[i].ID == req.PreferredTableID {
			continue // already checked
		}
		res, err := a.Availability.CheckTableAvailabilityTx(tx, candidates[i].ID,
			req.Date, req.Time, req.Duration, req.ExcludeReservationID)
		if err != nil {
			return nil, err
		}
		if res.Available {
			return &candidates[i], nil
		}
	}

	return nil, nil
}

// FindAvailableTables lists every free candidate for the criteria, in
// assignment order. Used by the availability endpoint.
func (a *TableAssigner) FindAvailableTables(req AssignRequest) ([]models.Table, error) {
	query := a.DB.Model(&models.Table{}).
		Where("is_active = ?", true).
		Where("min_capacity <= ?", req.PartySize).
		Where("capacity >= ?", req.PartySize)
	if req.Floor != "" {
		query = query.Where("floor = ?", req.Floor)
	}

	var candidates []models.Table
	if err := query.Order("capacity asc, table_number asc").Find(&candidates).Error; err != nil {
		return nil, err
	}

	available := make([]models.Table, 0)
	for _, table := range candidates {
		res, err := a.Availability.CheckTableAvailability(table.ID,
			req.Date, req.Time, req.Duration, req.ExcludeReservationID)
		if err != nil {
			return nil, err
		}
		if res.Available {
			available = append(available, table)
		}
	}
	return available, nil
}
