package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/services"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

type ReservationController struct {
	Service *services.ReservationService
}

func NewReservationController(service *services.ReservationService) *ReservationController {
	return &ReservationController{Service: service}
}

// CreateReservation books a table, auto-assigning one when table_id is omitted.
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var input services.CreateReservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reservation, err := rc.Service.Create(input, actorID(c))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Reservation created successfully", reservation)
}

// GetAllReservations lists reservations with filters and pagination.
func (rc *ReservationController) GetAllReservations(c *gin.Context) {
	opts := services.ListOptions{
		Filters: services.ReservationFilters{
			Status:       c.Query("status"),
			Date:         c.Query("date"),
			PhoneNumber:  c.Query("phone"),
			CustomerName: c.Query("customer_name"),
		},
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if v := c.Query("table_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		opts.Filters.TableID = uint(id)
	}
	opts.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	opts.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	reservations, pagination, err := rc.Service.List(opts)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of reservations", gin.H{
		"items":      reservations,
		"pagination": pagination,
	})
}

// GetReservationByID returns one reservation with its audit trail.
func (rc *ReservationController) GetReservationByID(c *gin.Context) {
	id, ok := paramID(c, "reservation_id")
	if !ok {
		return
	}

	reservation, err := rc.Service.GetByID(id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	audits, err := rc.Service.Audit.History(reservation.ID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Reservation detail", gin.H{
		"reservation": reservation,
		"audits":      audits,
	})
}

// GetReservationByCode looks up a reservation by its human-readable code.
func (rc *ReservationController) GetReservationByCode(c *gin.Context) {
	reservation, err := rc.Service.GetByCode(c.Param("code"))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation detail", reservation)
}

// GetReservationsByPhone lists a guest's reservations, newest first.
func (rc *ReservationController) GetReservationsByPhone(c *gin.Context) {
	reservations, err := rc.Service.GetByPhone(c.Param("phone"))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservations for phone", reservations)
}

// UpdateReservation edits reservation fields, re-resolving the table when
// the slot changed and applying status transitions when status is included.
func (rc *ReservationController) UpdateReservation(c *gin.Context) {
	id, ok := paramID(c, "reservation_id")
	if !ok {
		return
	}

	var input services.UpdateReservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reservation, err := rc.Service.Update(id, input, actorID(c))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Reservation updated", reservation)
}

// CancelReservation cancels with an optional reason.
func (rc *ReservationController) CancelReservation(c *gin.Context) {
	id, ok := paramID(c, "reservation_id")
	if !ok {
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body)

	reservation, err := rc.Service.Cancel(id, body.Reason, actorID(c))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Reservation cancelled", reservation)
}

// ConfirmReservation moves a pending reservation to confirmed.
func (rc *ReservationController) ConfirmReservation(c *gin.Context) {
	rc.simpleTransition(c, rc.Service.Confirm, "Reservation confirmed")
}

// SeatReservation marks the party as seated.
func (rc *ReservationController) SeatReservation(c *gin.Context) {
	rc.simpleTransition(c, rc.Service.MarkSeated, "Customer seated")
}

// CompleteReservation closes out the visit.
func (rc *ReservationController) CompleteReservation(c *gin.Context) {
	rc.simpleTransition(c, rc.Service.MarkCompleted, "Reservation completed")
}

// MarkNoShow flags a party that never arrived.
func (rc *ReservationController) MarkNoShow(c *gin.Context) {
	rc.simpleTransition(c, rc.Service.MarkNoShow, "Reservation marked as no-show")
}

// ChangeStatus applies an arbitrary caller-supplied status transition.
func (rc *ReservationController) ChangeStatus(c *gin.Context) {
	id, ok := paramID(c, "reservation_id")
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reservation, err := rc.Service.ChangeStatus(id, body.Status, actorID(c), body.Reason)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Reservation status updated", reservation)
}

// DeleteReservation is the administrative hard-delete path.
func (rc *ReservationController) DeleteReservation(c *gin.Context) {
	id, ok := paramID(c, "reservation_id")
	if !ok {
		return
	}

	if err := rc.Service.Delete(id, actorID(c)); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Reservation deleted", gin.H{"id": id})
}

// CheckAvailability reports whether one table is free for an interval.
func (rc *ReservationController) CheckAvailability(c *gin.Context) {
	tableID, err := strconv.ParseUint(c.Query("table_id"), 10, 64)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	duration, _ := strconv.Atoi(c.DefaultQuery("duration", "0"))
	var excludeID uint
	if v := c.Query("exclude_reservation_id"); v != "" {
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		excludeID = uint(parsed)
	}

	result, err := rc.Service.CheckAvailability(uint(tableID), c.Query("date"), c.Query("time"), duration, excludeID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Availability check", result)
}

// GetAvailableTables lists every free table matching the criteria, in
// assignment order (smallest adequate first).
func (rc *ReservationController) GetAvailableTables(c *gin.Context) {
	partySize, err := strconv.Atoi(c.Query("party_size"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	duration, _ := strconv.Atoi(c.DefaultQuery("duration", "120"))

	tables, err := rc.Service.Assigner.FindAvailableTables(services.AssignRequest{
		Date:      c.Query("date"),
		Time:      c.Query("time"),
		Duration:  duration,
		PartySize: partySize,
		Floor:     c.Query("floor"),
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Available tables", tables)
}

func (rc *ReservationController) simpleTransition(c *gin.Context, fn func(uint, *uint) (*models.Reservation, error), message string) {
	id, ok := paramID(c, "reservation_id")
	if !ok {
		return
	}

	reservation, err := fn(id, actorID(c))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, message, reservation)
}

// actorID reads the acting staff id set by an upstream identity layer, if
// any. System actions carry no actor.
func actorID(c *gin.Context) *uint {
	if v := c.GetHeader("X-Actor-ID"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			actor := uint(id)
			return &actor
		}
	}
	return nil
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return 0, false
	}
	return uint(id), true
}
