package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservation/config"
	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/services"
	"github.com/yeremiapane/restaurant-reservation/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.InitLogger()
	os.Exit(m.Run())
}

type testEnv struct {
	Router  *gin.Engine
	DB      *gorm.DB
	Service *services.ReservationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.Customer{},
		&models.Reservation{},
		&models.ReservationAudit{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	loc, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		t.Fatalf("failed to load timezone: %v", err)
	}
	cfg := &config.AppConfig{
		Timezone:          "Asia/Jakarta",
		Location:          loc,
		BookingWindowDays: 90,
		MinPartySize:      1,
		MaxPartySize:      50,
		MinDuration:       30,
		MaxDuration:       480,
		DefaultDuration:   120,
		NoShowGrace:       30 * time.Minute,
	}

	svc := services.NewReservationService(db, cfg)
	svc.Now = func() time.Time {
		return time.Date(2024, 5, 20, 10, 0, 0, 0, loc)
	}

	reservationCtrl := NewReservationController(svc)
	tableCtrl := NewTableController(db)

	r := gin.New()
	r.POST("/reservations", reservationCtrl.CreateReservation)
	r.GET("/reservations", reservationCtrl.GetAllReservations)
	r.GET("/reservations/:reservation_id", reservationCtrl.GetReservationByID)
	r.GET("/reservations/code/:code", reservationCtrl.GetReservationByCode)
	r.GET("/reservations/phone/:phone", reservationCtrl.GetReservationsByPhone)
	r.PATCH("/reservations/:reservation_id", reservationCtrl.UpdateReservation)
	r.POST("/reservations/:reservation_id/cancel", reservationCtrl.CancelReservation)
	r.POST("/reservations/:reservation_id/confirm", reservationCtrl.ConfirmReservation)
	r.POST("/reservations/:reservation_id/seat", reservationCtrl.SeatReservation)
	r.POST("/reservations/:reservation_id/complete", reservationCtrl.CompleteReservation)
	r.POST("/reservations/:reservation_id/no-show", reservationCtrl.MarkNoShow)
	r.PATCH("/reservations/:reservation_id/status", reservationCtrl.ChangeStatus)
	r.DELETE("/reservations/:reservation_id", reservationCtrl.DeleteReservation)
	r.GET("/availability", reservationCtrl.CheckAvailability)
	r.GET("/availability/tables", reservationCtrl.GetAvailableTables)
	r.GET("/tables", tableCtrl.GetAllTables)
	r.POST("/tables", tableCtrl.CreateTable)
	r.GET("/tables/:table_id", tableCtrl.GetTableByID)
	r.PATCH("/tables/:table_id", tableCtrl.UpdateTable)
	r.DELETE("/tables/:table_id", tableCtrl.DeleteTable)

	return &testEnv{Router: r, DB: db, Service: svc}
}

// request performs an HTTP call against the test router with a JSON body.
func (e *testEnv) request(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

// decodeResponse unwraps the standard response envelope.
func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) utils.JSONResponse {
	t.Helper()
	var resp utils.JSONResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v (body: %s)", err, w.Body.String())
	}
	return resp
}

// dataMap re-decodes the envelope's data field as an object.
func dataMap(t *testing.T, resp utils.JSONResponse) map[string]interface{} {
	t.Helper()
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("response data is not an object: %#v", resp.Data)
	}
	return data
}

func seedTablePool(t *testing.T, db *gorm.DB) (models.Table, models.Table, models.Table) {
	t.Helper()
	small := models.Table{TableNumber: "T1", Capacity: 2, MinCapacity: 1, Floor: "1", IsActive: true, Status: models.TableAvailable}
	medium := models.Table{TableNumber: "T2", Capacity: 4, MinCapacity: 2, Floor: "1", IsActive: true, Status: models.TableAvailable}
	large := models.Table{TableNumber: "T3", Capacity: 6, MinCapacity: 4, Floor: "2", IsActive: true, Status: models.TableAvailable}
	for _, table := range []*models.Table{&small, &medium, &large} {
		if err := db.Create(table).Error; err != nil {
			t.Fatalf("failed to seed table: %v", err)
		}
	}
	return small, medium, large
}

func validBookingBody() gin.H {
	return gin.H{
		"customer_name":    "Budi Santoso",
		"phone_number":     "081234567890",
		"reservation_date": "2024-06-01",
		"reservation_time": "19:00",
		"party_size":       4,
	}
}
