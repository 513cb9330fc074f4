package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yeremiapane/restaurant-reservation/apperrors"
	"github.com/yeremiapane/restaurant-reservation/config"
	"github.com/yeremiapane/restaurant-reservation/events"
	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const noShowNote = "Marked as no-show"

// ReservationService owns the reservation lifecycle. Every mutation runs in
// a transaction that re-checks availability under a row lock, writes exactly
// one audit entry, and announces a domain event after commit.
type ReservationService struct {
	DB           *gorm.DB
	Cfg          *config.AppConfig
	Times        *TimeService
	Availability *AvailabilityService
	Assigner     *TableAssigner
	Audit        *AuditService
	Publisher    *EventPublisher // optional queue fanout, nil when unconfigured

	// Now is swappable so tests can pin the booking window.
	Now func() time.Time
}

func NewReservationService(db *gorm.DB, cfg *config.AppConfig) *ReservationService {
	times := NewTimeService(cfg.Location)
	availability := NewAvailabilityService(db, times, cfg.MaxDuration)
	return &ReservationService{
		DB:           db,
		Cfg:          cfg,
		Times:        times,
		Availability: availability,
		Assigner:     NewTableAssigner(db, availability),
		Audit:        NewAuditService(db),
		Now:          time.Now,
	}
}

type CreateReservationInput struct {
	CustomerName     string   `json:"customer_name" binding:"required"`
	PhoneNumber      string   `json:"phone_number" binding:"required"`
	Email            *string  `json:"email"`
	TableID          uint     `json:"table_id"` // 0 = auto-assign
	Floor            string   `json:"floor"`
	PreferredTableID uint     `json:"preferred_table_id"`
	ReservationDate  string   `json:"reservation_date" binding:"required"`
	ReservationTime  string   `json:"reservation_time" binding:"required"`
	Duration         int      `json:"duration"`
	PartySize        int      `json:"party_size" binding:"required"`
	SpecialRequest   *string  `json:"special_request"`
	DepositAmount    *float64 `json:"deposit_amount"`
	Notes            *string  `json:"notes"`
	Tags             []string `json:"tags"`
	Status           string   `json:"status"` // optional explicit initial status
}

type UpdateReservationInput struct {
	CustomerName    *string  `json:"customer_name"`
	PhoneNumber     *string  `json:"phone_number"`
	Email           *string  `json:"email"`
	TableID         *uint    `json:"table_id"` // nil = unchanged, 0 = re-run auto-assign
	Floor           *string  `json:"floor"`
	ReservationDate *string  `json:"reservation_date"`
	ReservationTime *string  `json:"reservation_time"`
	Duration        *int     `json:"duration"`
	PartySize       *int     `json:"party_size"`
	SpecialRequest  *string  `json:"special_request"`
	DepositAmount   *float64 `json:"deposit_amount"`
	Notes           *string  `json:"notes"`
	Tags            []string `json:"tags"`
	Status          *string  `json:"status"`
}

// Create validates the request, resolves a table (explicit or auto-assigned),
// and books it. The availability check and the insert share one transaction
// holding the table's row lock, so two racing requests cannot both commit.
func (s *ReservationService) Create(input CreateReservationInput, actorID *uint) (*models.Reservation, error) {
	duration := input.Duration
	if duration == 0 {
		duration = s.Cfg.DefaultDuration
	}
	if err := s.validatePartySize(input.PartySize); err != nil {
		return nil, err
	}
	if err := s.validateDuration(duration); err != nil {
		return nil, err
	}

	start, err := s.Times.CombineDateTime(input.ReservationDate, input.ReservationTime)
	if err != nil {
		return nil, err
	}
	if err := s.validateWindow(start); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = models.StatusPending
	}
	if !models.IsValidStatus(status) {
		return nil, apperrors.NewValidationf("status", "unknown status %q", status)
	}

	reservation := &models.Reservation{
		ReservationCode: generateReservationCode(),
		CustomerName:    input.CustomerName,
		PhoneNumber:     input.PhoneNumber,
		Email:           input.Email,
		ReservationDate: s.Times.StartOfDay(start),
		ReservationTime: start,
		Duration:        duration,
		PartySize:       input.PartySize,
		Status:          models.StatusPending,
		SpecialRequest:  input.SpecialRequest,
		DepositAmount:   input.DepositAmount,
		Notes:           input.Notes,
		CreatedBy:       actorID,
	}
	reservation.SetTags(input.Tags)

	// Explicit non-pending initial status still gets its timestamps.
	if status != models.StatusPending {
		if _, err := s.applyTransition(reservation, status, ""); err != nil {
			return nil, err
		}
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		customerID, err := s.upsertCustomer(tx, input.CustomerName, input.PhoneNumber, input.Email)
		if err != nil {
			return err
		}
		reservation.CustomerID = customerID

		table, err := s.resolveTable(tx, resolveRequest{
			TableID:          input.TableID,
			Floor:            input.Floor,
			PreferredTableID: input.PreferredTableID,
			Date:             input.ReservationDate,
			Time:             input.ReservationTime,
			Duration:         duration,
			PartySize:        input.PartySize,
		})
		if err != nil {
			return err
		}
		reservation.TableID = table.ID

		if err := tx.Omit(clause.Associations).Create(reservation).Error; err != nil {
			return translateStorageConflict(err)
		}
		if err := s.Audit.RecordTx(tx, reservation.ID, models.AuditCreated, actorID, map[string]interface{}{
			"status":     reservation.Status,
			"table_id":   reservation.TableID,
			"party_size": reservation.PartySize,
			"starts_at":  s.Times.FormatDateTime(reservation.ReservationTime),
		}); err != nil {
			return err
		}
		return s.setTableStatus(tx, table.ID, models.TableReserved)
	})
	if err != nil {
		return nil, err
	}

	if err := s.DB.Preload("Table").First(reservation, reservation.ID).Error; err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Reservation created: %s for %s (table %d)",
		reservation.ReservationCode, reservation.CustomerName, reservation.TableID)
	s.emit(events.EventReservationCreate, reservation)

	return reservation, nil
}

// Update re-validates any changed temporal or size field, re-runs table
// resolution when needed (excluding the reservation's own booking from the
// conflict check), and applies status transitions as part of the same save.
// A conflict rolls everything back and leaves the original untouched.
func (s *ReservationService) Update(id uint, input UpdateReservationInput, actorID *uint) (*models.Reservation, error) {
	reservation, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if reservation.IsTerminal() || reservation.Status == models.StatusNoShow {
		return nil, apperrors.NewInvalidTransition(reservation.Status, "")
	}

	slotChanged := input.TableID != nil || input.ReservationDate != nil ||
		input.ReservationTime != nil || input.Duration != nil || input.PartySize != nil

	newDate := s.Times.FormatDate(reservation.ReservationTime)
	if input.ReservationDate != nil {
		newDate = *input.ReservationDate
	}
	newTime := s.Times.FormatTime(reservation.ReservationTime)
	if input.ReservationTime != nil {
		newTime = *input.ReservationTime
	}
	newDuration := reservation.Duration
	if input.Duration != nil {
		newDuration = *input.Duration
	}
	newPartySize := reservation.PartySize
	if input.PartySize != nil {
		newPartySize = *input.PartySize
	}

	changes := map[string]interface{}{}

	if slotChanged {
		if err := s.validatePartySize(newPartySize); err != nil {
			return nil, err
		}
		if err := s.validateDuration(newDuration); err != nil {
			return nil, err
		}
		start, err := s.Times.CombineDateTime(newDate, newTime)
		if err != nil {
			return nil, err
		}
		if err := s.validateWindow(start); err != nil {
			return nil, err
		}
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if slotChanged {
			req := resolveRequest{
				Floor:                stringOrEmpty(input.Floor),
				Date:                 newDate,
				Time:                 newTime,
				Duration:             newDuration,
				PartySize:            newPartySize,
				ExcludeReservationID: reservation.ID,
			}
			switch {
			case input.TableID == nil:
				req.TableID = reservation.TableID
			case *input.TableID == 0:
				req.TableID = 0
				req.PreferredTableID = reservation.TableID
			default:
				req.TableID = *input.TableID
			}

			table, err := s.resolveTable(tx, req)
			if err != nil {
				return err
			}

			if table.ID != reservation.TableID {
				// Old table no longer holds this booking.
				if err := s.setTableStatus(tx, reservation.TableID, models.TableAvailable); err != nil {
					return err
				}
				if err := s.setTableStatus(tx, table.ID, models.TableReserved); err != nil {
					return err
				}
				changes["table_id"] = table.ID
			}

			start, _ := s.Times.CombineDateTime(newDate, newTime)
			reservation.TableID = table.ID
			reservation.ReservationDate = s.Times.StartOfDay(start)
			reservation.ReservationTime = start
			reservation.Duration = newDuration
			reservation.PartySize = newPartySize
			changes["starts_at"] = s.Times.FormatDateTime(start)
			changes["duration"] = newDuration
			changes["party_size"] = newPartySize
		}

		if input.CustomerName != nil {
			reservation.CustomerName = *input.CustomerName
			changes["customer_name"] = *input.CustomerName
		}
		if input.PhoneNumber != nil {
			reservation.PhoneNumber = *input.PhoneNumber
			changes["phone_number"] = *input.PhoneNumber
		}
		if input.Email != nil {
			reservation.Email = input.Email
			changes["email"] = *input.Email
		}
		if input.SpecialRequest != nil {
			reservation.SpecialRequest = input.SpecialRequest
			changes["special_request"] = *input.SpecialRequest
		}
		if input.DepositAmount != nil {
			reservation.DepositAmount = input.DepositAmount
			changes["deposit_amount"] = *input.DepositAmount
		}
		if input.Notes != nil {
			reservation.Notes = input.Notes
			changes["notes"] = *input.Notes
		}
		if input.Tags != nil {
			reservation.SetTags(input.Tags)
			changes["tags"] = input.Tags
		}
		if input.Status != nil && *input.Status != reservation.Status {
			transitionChanges, err := s.applyTransition(reservation, *input.Status, "")
			if err != nil {
				return err
			}
			for k, v := range transitionChanges {
				changes[k] = v
			}
		}

		if err := tx.Omit(clause.Associations).Save(reservation).Error; err != nil {
			return translateStorageConflict(err)
		}
		return s.Audit.RecordTx(tx, reservation.ID, models.AuditUpdated, actorID, changes)
	})
	if err != nil {
		return nil, err
	}

	if err := s.DB.Preload("Table").First(reservation, reservation.ID).Error; err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Reservation updated: %s", reservation.ReservationCode)
	s.emit(events.EventReservationUpdate, reservation)

	return reservation, nil
}

// Confirm moves a pending reservation to confirmed. Re-confirming is a no-op
// that keeps the original confirmedAt.
func (s *ReservationService) Confirm(id uint, actorID *uint) (*models.Reservation, error) {
	return s.transition(id, models.StatusConfirmed, actorID, "")
}

// MarkSeated seats the party, backfilling confirmedAt when the confirm step
// was skipped.
func (s *ReservationService) MarkSeated(id uint, actorID *uint) (*models.Reservation, error) {
	return s.transition(id, models.StatusSeated, actorID, "")
}

// MarkCompleted closes out the visit. Completed is a sink; nothing moves a
// reservation out of it afterwards.
func (s *ReservationService) MarkCompleted(id uint, actorID *uint) (*models.Reservation, error) {
	return s.transition(id, models.StatusCompleted, actorID, "")
}

// MarkNoShow flags a party that never arrived.
func (s *ReservationService) MarkNoShow(id uint, actorID *uint) (*models.Reservation, error) {
	return s.transition(id, models.StatusNoShow, actorID, "")
}

// Cancel cancels any reservation that has not completed, storing the reason.
func (s *ReservationService) Cancel(id uint, reason string, actorID *uint) (*models.Reservation, error) {
	return s.transition(id, models.StatusCancelled, actorID, reason)
}

// ChangeStatus routes a caller-supplied status through the transition rules.
func (s *ReservationService) ChangeStatus(id uint, status string, actorID *uint, reason string) (*models.Reservation, error) {
	if !models.IsValidStatus(status) {
		return nil, apperrors.NewValidationf("status", "unknown status %q", status)
	}
	if status == models.StatusPending {
		return nil, apperrors.NewValidation("status", "reservations cannot return to pending")
	}
	return s.transition(id, status, actorID, reason)
}

func (s *ReservationService) transition(id uint, target string, actorID *uint, reason string) (*models.Reservation, error) {
	reservation, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		changes, err := s.applyTransition(reservation, target, reason)
		if err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(reservation).Error; err != nil {
			return err
		}

		action := models.AuditStatusChanged
		if target == models.StatusCancelled {
			action = models.AuditCancelled
		}
		if err := s.Audit.RecordTx(tx, reservation.ID, action, actorID, changes); err != nil {
			return err
		}
		return s.reflectTableStatus(tx, reservation)
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Reservation %s: status -> %s", reservation.ReservationCode, reservation.Status)

	event := events.EventStatusChange
	if target == models.StatusCancelled {
		event = events.EventReservationCancel
	}
	s.emit(event, reservation)

	return reservation, nil
}

// applyTransition mutates the reservation in memory per the lifecycle rules.
// Status timestamps are set at most once and never overwritten.
func (s *ReservationService) applyTransition(r *models.Reservation, target, reason string) (map[string]interface{}, error) {
	if r.IsTerminal() {
		return nil, apperrors.NewInvalidTransition(r.Status, target)
	}

	now := s.Now()
	changes := map[string]interface{}{"from": r.Status, "status": target}

	switch target {
	case models.StatusConfirmed:
		if r.Status != models.StatusPending && r.Status != models.StatusConfirmed {
			return nil, apperrors.NewInvalidTransition(r.Status, target)
		}
		if r.ConfirmedAt == nil {
			r.ConfirmedAt = &now
		}
	case models.StatusSeated:
		if r.ConfirmedAt == nil {
			r.ConfirmedAt = &now
		}
		if r.SeatedAt == nil {
			r.SeatedAt = &now
		}
	case models.StatusCompleted:
		if r.ConfirmedAt == nil {
			r.ConfirmedAt = &now
		}
		if r.SeatedAt == nil {
			r.SeatedAt = &now
		}
		if r.CompletedAt == nil {
			r.CompletedAt = &now
		}
	case models.StatusCancelled:
		if r.CancelledAt == nil {
			r.CancelledAt = &now
		}
		if reason != "" {
			r.CancellationReason = &reason
			changes["reason"] = reason
		}
	case models.StatusNoShow:
		if r.ConfirmedAt == nil {
			r.ConfirmedAt = &now
		}
		if r.Notes == nil || *r.Notes == "" {
			note := noShowNote
			r.Notes = &note
		}
	default:
		return nil, apperrors.NewInvalidTransition(r.Status, target)
	}

	r.Status = target
	return changes, nil
}

// Delete is the administrative hard-delete path, outside the normal
// lifecycle. The audit row outlives the reservation.
func (s *ReservationService) Delete(id uint, actorID *uint) error {
	reservation, err := s.GetByID(id)
	if err != nil {
		return err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Audit.RecordTx(tx, reservation.ID, models.AuditDeleted, actorID, map[string]interface{}{
			"status": reservation.Status,
			"code":   reservation.ReservationCode,
		}); err != nil {
			return err
		}
		if err := tx.Delete(&models.Reservation{}, reservation.ID).Error; err != nil {
			return err
		}
		return s.setTableStatus(tx, reservation.TableID, models.TableAvailable)
	})
	if err != nil {
		return err
	}

	utils.InfoLogger.Printf("Reservation deleted: %s", reservation.ReservationCode)
	return nil
}

// ---- reads ----

type ReservationFilters struct {
	Status       string
	Date         string
	TableID      uint
	PhoneNumber  string
	CustomerName string
}

type ListOptions struct {
	Filters   ReservationFilters
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

var sortColumns = map[string]string{
	"reservation_time": "reservation_time",
	"created_at":       "created_at",
	"party_size":       "party_size",
	"status":           "status",
}

func (s *ReservationService) List(opts ListOptions) ([]models.Reservation, *Pagination, error) {
	query := s.DB.Model(&models.Reservation{})

	f := opts.Filters
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.TableID != 0 {
		query = query.Where("table_id = ?", f.TableID)
	}
	if f.PhoneNumber != "" {
		query = query.Where("phone_number LIKE ?", "%"+f.PhoneNumber+"%")
	}
	if f.CustomerName != "" {
		query = query.Where("customer_name LIKE ?", "%"+f.CustomerName+"%")
	}
	if f.Date != "" {
		day, err := s.Times.ParseLocalDate(f.Date)
		if err != nil {
			return nil, nil, err
		}
		query = query.Where("reservation_time BETWEEN ? AND ?",
			s.Times.StartOfDay(day), s.Times.EndOfDay(day))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	page := opts.Page
	if page <= 0 {
		page = 1
	}

	column, ok := sortColumns[opts.SortBy]
	if !ok {
		column = "reservation_time"
	}
	order := "desc"
	if strings.EqualFold(opts.SortOrder, "asc") {
		order = "asc"
	}

	var reservations []models.Reservation
	err := query.Preload("Table").Preload("Customer").Preload("Creator").
		Order(column + " " + order).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&reservations).Error
	if err != nil {
		return nil, nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return reservations, &Pagination{Total: total, Page: page, Limit: limit, TotalPages: totalPages}, nil
}

func (s *ReservationService) GetByID(id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	err := s.DB.Preload("Table").Preload("Customer").Preload("Creator").First(&reservation, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFound("reservation")
	}
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (s *ReservationService) GetByCode(code string) (*models.Reservation, error) {
	var reservation models.Reservation
	err := s.DB.Preload("Table").Where("reservation_code = ?", code).First(&reservation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFound("reservation")
	}
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (s *ReservationService) GetByPhone(phone string) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := s.DB.Preload("Table").
		Where("phone_number LIKE ?", "%"+phone+"%").
		Order("reservation_time desc").
		Find(&reservations).Error
	return reservations, err
}

// CheckAvailability validates bounds and delegates to the availability
// checker. Zero or negative durations never reach the overlap test.
func (s *ReservationService) CheckAvailability(tableID uint, dateStr, timeStr string, duration int, excludeReservationID uint) (*AvailabilityResult, error) {
	if duration == 0 {
		duration = s.Cfg.DefaultDuration
	}
	if err := s.validateDuration(duration); err != nil {
		return nil, err
	}
	var table models.Table
	if err := s.DB.First(&table, tableID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("table")
		}
		return nil, err
	}
	return s.Availability.CheckTableAvailability(tableID, dateStr, timeStr, duration, excludeReservationID)
}

// ---- table resolution ----

type resolveRequest struct {
	TableID              uint
	Floor                string
	PreferredTableID     uint
	Date                 string
	Time                 string
	Duration             int
	PartySize            int
	ExcludeReservationID uint
}

// resolveTable picks and locks the table for a booking. With an explicit
// table id the row is locked and re-checked; with none the assigner searches
// the pool inside the same transaction.
func (s *ReservationService) resolveTable(tx *gorm.DB, req resolveRequest) (*models.Table, error) {
	if req.TableID != 0 {
		table, err := s.lockTable(tx, req.TableID)
		if err != nil {
			return nil, err
		}
		if !table.IsActive {
			return nil, apperrors.NewValidation("table_id", "table is not active")
		}
		if req.PartySize > table.Capacity {
			return nil, apperrors.NewValidationf("party_size",
				"table capacity is %d, but %d people requested", table.Capacity, req.PartySize)
		}
		if req.PartySize < table.MinCapacity {
			return nil, apperrors.NewValidationf("party_size",
				"table requires a minimum of %d people", table.MinCapacity)
		}
		res, err := s.Availability.CheckTableAvailabilityTx(tx, table.ID,
			req.Date, req.Time, req.Duration, req.ExcludeReservationID)
		if err != nil {
			return nil, err
		}
		if !res.Available {
			return nil, apperrors.NewConflict("table is already reserved for this time slot")
		}
		return table, nil
	}

	table, err := s.Assigner.AutoAssignTx(tx, AssignRequest{
		Date:                 req.Date,
		Time:                 req.Time,
		Duration:             req.Duration,
		PartySize:            req.PartySize,
		Floor:                req.Floor,
		PreferredTableID:     req.PreferredTableID,
		ExcludeReservationID: req.ExcludeReservationID,
	})
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, apperrors.NewConflict("no tables available for the requested time")
	}
	// Lock the chosen row and re-check so a concurrent booking on the same
	// table surfaces here rather than as a double commit.
	locked, err := s.lockTable(tx, table.ID)
	if err != nil {
		return nil, err
	}
	res, err := s.Availability.CheckTableAvailabilityTx(tx, locked.ID,
		req.Date, req.Time, req.Duration, req.ExcludeReservationID)
	if err != nil {
		return nil, err
	}
	if !res.Available {
		return nil, apperrors.NewConflict("table is already reserved for this time slot")
	}
	return locked, nil
}

func (s *ReservationService) lockTable(tx *gorm.DB, tableID uint) (*models.Table, error) {
	var table models.Table
	err := lockForUpdate(tx).First(&table, tableID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFound("table")
	}
	if err != nil {
		return nil, err
	}
	return &table, nil
}

// lockForUpdate takes a row lock on MySQL. SQLite serializes writers on its
// own and rejects the locking clause, so it is skipped there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// reflectTableStatus mirrors the reservation's state onto the table's floor
// status, as the host dashboard expects.
func (s *ReservationService) reflectTableStatus(tx *gorm.DB, r *models.Reservation) error {
	switch r.Status {
	case models.StatusSeated:
		return s.setTableStatus(tx, r.TableID, models.TableOccupied)
	case models.StatusConfirmed:
		return s.setTableStatus(tx, r.TableID, models.TableReserved)
	case models.StatusCompleted, models.StatusCancelled, models.StatusNoShow:
		return s.setTableStatus(tx, r.TableID, models.TableAvailable)
	}
	return nil
}

func (s *ReservationService) setTableStatus(tx *gorm.DB, tableID uint, status string) error {
	return tx.Model(&models.Table{}).Where("id = ?", tableID).Update("status", status).Error
}

// ---- helpers ----

func (s *ReservationService) upsertCustomer(tx *gorm.DB, name, phone string, email *string) (*uint, error) {
	if email == nil || *email == "" {
		return nil, nil
	}

	var customer models.Customer
	err := tx.Where("email = ?", *email).First(&customer).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		customer = models.Customer{Name: name, PhoneNumber: phone, Email: email}
		if err := tx.Create(&customer).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		customer.Name = name
		customer.PhoneNumber = phone
		if err := tx.Save(&customer).Error; err != nil {
			return nil, err
		}
	}
	return &customer.ID, nil
}

func (s *ReservationService) validatePartySize(partySize int) error {
	if partySize < s.Cfg.MinPartySize || partySize > s.Cfg.MaxPartySize {
		return apperrors.NewValidationf("party_size",
			"party size must be between %d and %d", s.Cfg.MinPartySize, s.Cfg.MaxPartySize)
	}
	return nil
}

func (s *ReservationService) validateDuration(duration int) error {
	if duration < s.Cfg.MinDuration || duration > s.Cfg.MaxDuration {
		return apperrors.NewValidationf("duration",
			"duration must be between %d and %d minutes", s.Cfg.MinDuration, s.Cfg.MaxDuration)
	}
	return nil
}

func (s *ReservationService) validateWindow(start time.Time) error {
	now := s.Now().In(s.Cfg.Location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.Cfg.Location)

	startLocal := start.In(s.Cfg.Location)
	day := time.Date(startLocal.Year(), startLocal.Month(), startLocal.Day(), 0, 0, 0, 0, s.Cfg.Location)

	if day.Before(today) {
		return apperrors.NewValidation("reservation_date", "reservation date is in the past")
	}
	if day.After(today.AddDate(0, 0, s.Cfg.BookingWindowDays)) {
		return apperrors.NewValidationf("reservation_date",
			"reservation date is beyond the %d-day booking window", s.Cfg.BookingWindowDays)
	}
	return nil
}

func (s *ReservationService) emit(eventType string, r *models.Reservation) {
	event := events.DomainEvent{
		Type:          eventType,
		ReservationID: r.ID,
		Status:        r.Status,
		TableID:       r.TableID,
	}
	events.BroadcastReservationEvent(event)
	if s.Publisher != nil {
		// Queue fanout is best-effort; the publisher logs its own failures.
		_ = s.Publisher.Publish(context.Background(), event)
	}
}

func generateReservationCode() string {
	return "RSV-" + strings.ToUpper(uuid.NewString()[:8])
}

func translateStorageConflict(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.NewConflict("a concurrent booking won this time slot")
	}
	return err
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
