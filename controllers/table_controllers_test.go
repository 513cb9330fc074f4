package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/yeremiapane/restaurant-reservation/models"
)

func TestCreateTableEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/tables", gin.H{
		"table_number": "A1",
		"capacity":     4,
		"min_capacity": 2,
		"floor":        "1",
		"location":     "window",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	data := dataMap(t, decodeResponse(t, w))
	assert.Equal(t, "A1", data["table_number"])
	assert.EqualValues(t, 4, data["capacity"])
	assert.EqualValues(t, 2, data["min_capacity"])
	assert.Equal(t, true, data["is_active"])
	assert.Equal(t, models.TableAvailable, data["status"])
}

func TestCreateTableDefaultsMinCapacity(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/tables", gin.H{
		"table_number": "A2",
		"capacity":     6,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.EqualValues(t, 1, dataMap(t, decodeResponse(t, w))["min_capacity"])
}

func TestCreateTableRejectsInvertedBounds(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/tables", gin.H{
		"table_number": "A3",
		"capacity":     2,
		"min_capacity": 4,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.request(t, http.MethodPost, "/tables", gin.H{"table_number": "A4"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAllTablesFilters(t *testing.T) {
	env := newTestEnv(t)
	_, medium, large := seedTablePool(t, env.DB)
	assert.NoError(t, env.DB.Model(&medium).Update("is_active", false).Error)

	w := env.request(t, http.MethodGet, "/tables", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	tables := decodeResponse(t, w).Data.([]interface{})
	assert.Len(t, tables, 3)

	w = env.request(t, http.MethodGet, "/tables?active=true", nil)
	tables = decodeResponse(t, w).Data.([]interface{})
	assert.Len(t, tables, 2)

	w = env.request(t, http.MethodGet, "/tables?floor=2", nil)
	tables = decodeResponse(t, w).Data.([]interface{})
	assert.Len(t, tables, 1)
	first := tables[0].(map[string]interface{})
	assert.EqualValues(t, large.ID, first["id"])
}

func TestUpdateTableEndpoint(t *testing.T) {
	env := newTestEnv(t)
	small, _, _ := seedTablePool(t, env.DB)
	path := fmt.Sprintf("/tables/%d", small.ID)

	w := env.request(t, http.MethodPatch, path, gin.H{
		"capacity":  3,
		"is_active": false,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	data := dataMap(t, decodeResponse(t, w))
	assert.EqualValues(t, 3, data["capacity"])
	assert.Equal(t, false, data["is_active"])

	// Bounds stay consistent after partial edits.
	w = env.request(t, http.MethodPatch, path, gin.H{"min_capacity": 5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTableNotFoundResponses(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/tables/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.request(t, http.MethodPatch, "/tables/9999", gin.H{"floor": "3"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.request(t, http.MethodDelete, "/tables/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteTableEndpoint(t *testing.T) {
	env := newTestEnv(t)
	small, _, _ := seedTablePool(t, env.DB)

	w := env.request(t, http.MethodDelete, fmt.Sprintf("/tables/%d", small.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	env.DB.Model(&models.Table{}).Count(&count)
	assert.EqualValues(t, 2, count)
}
