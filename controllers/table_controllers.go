package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservation/events"
	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/utils"
	"gorm.io/gorm"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

// CreateTable adds a table to the resource pool.
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		TableNumber string `json:"table_number" binding:"required"`
		Capacity    int    `json:"capacity" binding:"required"`
		MinCapacity int    `json:"min_capacity"`
		Floor       string `json:"floor"`
		Location    string `json:"location"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	minCapacity := req.MinCapacity
	if minCapacity == 0 {
		minCapacity = 1
	}
	if minCapacity > req.Capacity {
		utils.RespondError(c, http.StatusBadRequest,
			errMinCapacityExceedsCapacity)
		return
	}

	table := models.Table{
		TableNumber: req.TableNumber,
		Capacity:    req.Capacity,
		MinCapacity: minCapacity,
		Floor:       req.Floor,
		Location:    req.Location,
		IsActive:    true,
		Status:      models.TableAvailable,
	}

	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastMessage(events.Message{
		Event: events.EventTableCreate,
		Data:  table,
	})

	utils.InfoLogger.Printf("New table created: %s (capacity %d-%d, floor=%s)",
		table.TableNumber, table.MinCapacity, table.Capacity, table.Floor)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables lists the pool, optionally filtered by floor or active flag.
func (tc *TableController) GetAllTables(c *gin.Context) {
	query := tc.DB.Model(&models.Table{})
	if floor := c.Query("floor"); floor != "" {
		query = query.Where("floor = ?", floor)
	}
	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}

	var tables []models.Table
	if err := query.Order("capacity asc, table_number asc").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableByID returns one table.
func (tc *TableController) GetTableByID(c *gin.Context) {
	var table models.Table
	if err := tc.DB.First(&table, c.Param("table_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// UpdateTable edits table attributes (capacity bounds, floor, active flag).
func (tc *TableController) UpdateTable(c *gin.Context) {
	var table models.Table
	if err := tc.DB.First(&table, c.Param("table_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		TableNumber *string `json:"table_number"`
		Capacity    *int    `json:"capacity"`
		MinCapacity *int    `json:"min_capacity"`
		Floor       *string `json:"floor"`
		Location    *string `json:"location"`
		IsActive    *bool   `json:"is_active"`
		Status      *string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.TableNumber != nil {
		table.TableNumber = *req.TableNumber
	}
	if req.Capacity != nil {
		table.Capacity = *req.Capacity
	}
	if req.MinCapacity != nil {
		table.MinCapacity = *req.MinCapacity
	}
	if req.Floor != nil {
		table.Floor = *req.Floor
	}
	if req.Location != nil {
		table.Location = *req.Location
	}
	if req.IsActive != nil {
		table.IsActive = *req.IsActive
	}
	if req.Status != nil {
		table.Status = *req.Status
	}

	if table.MinCapacity > table.Capacity {
		utils.RespondError(c, http.StatusBadRequest, errMinCapacityExceedsCapacity)
		return
	}

	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastMessage(events.Message{
		Event: events.EventTableUpdate,
		Data:  table,
	})

	utils.InfoLogger.Printf("Table %d updated", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// DeleteTable removes a table from the pool.
func (tc *TableController) DeleteTable(c *gin.Context) {
	var table models.Table
	if err := tc.DB.First(&table, c.Param("table_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := tc.DB.Delete(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastMessage(events.Message{
		Event: events.EventTableDelete,
		Data:  gin.H{"table_id": table.ID},
	})

	utils.InfoLogger.Printf("Table %d deleted", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"id": table.ID})
}
