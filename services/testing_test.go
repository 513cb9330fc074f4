package services

import (
	"os"
	"testing"
	"time"

	"github.com/yeremiapane/restaurant-reservation/config"
	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

// setupTestDB opens a named in-memory SQLite database. The shared cache
// keeps every pooled connection on the same database.
func setupTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		t.Fatalf("failed to load timezone: %v", err)
	}
	return &config.AppConfig{
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
}

// newTestService pins the clock to 2024-05-20 so the 2024-06-01 fixtures sit
// inside the booking window.
func newTestService(t *testing.T) *ReservationService {
	t.Helper()
	svc := NewReservationService(setupTestDB(t), testConfig(t))
	svc.Now = func() time.Time {
		return time.Date(2024, 5, 20, 10, 0, 0, 0, svc.Cfg.Location)
	}
	return svc
}

// seedTables creates the three-table pool used by the assignment scenarios.
func seedTables(t *testing.T, db *gorm.DB) (models.Table, models.Table, models.Table) {
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

// seedReservation books a slot directly, bypassing the service.
func seedReservation(t *testing.T, db *gorm.DB, svc *ReservationService, tableID uint, date, timeStr string, duration int, status string) models.Reservation {
	t.Helper()
	start, err := svc.Times.CombineDateTime(date, timeStr)
	if err != nil {
		t.Fatalf("bad fixture time: %v", err)
	}
	reservation := models.Reservation{
		ReservationCode: generateReservationCode(),
		CustomerName:    "Seed Guest",
		PhoneNumber:     "0800000000",
		TableID:         tableID,
		ReservationDate: svc.Times.StartOfDay(start),
		ReservationTime: start,
		Duration:        duration,
		PartySize:       2,
		Status:          status,
	}
	if err := db.Create(&reservation).Error; err != nil {
		t.Fatalf("failed to seed reservation: %v", err)
	}
	return reservation
}
