package router

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservation/config"
	"github.com/yeremiapane/restaurant-reservation/controllers"
	"github.com/yeremiapane/restaurant-reservation/middlewares"
	"github.com/yeremiapane/restaurant-reservation/services"
	"github.com/yeremiapane/restaurant-reservation/utils"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, cfg *config.AppConfig) *gin.Engine {
	utils.InitDB(db)

	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	reservationSvc := services.NewReservationService(db, cfg)
	reservationSvc.Publisher = services.NewEventPublisher(os.Getenv("RABBITMQ_URL"))
	reservationCtrl := controllers.NewReservationController(reservationSvc)
	tableCtrl := controllers.NewTableController(db)

	// Health probe; also verifies the database connection is alive.
	r.GET("/ping", func(c *gin.Context) {
		sqlDB, err := utils.GetDB().DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			utils.RespondError(c, http.StatusServiceUnavailable, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Live reservation events for host-stand dashboards.
	r.GET("/events/ws", controllers.EventsHandler)

	// Availability reads.
	r.GET("/availability", reservationCtrl.CheckAvailability)
	r.GET("/availability/tables", reservationCtrl.GetAvailableTables)

	// Booking endpoints get the stricter limiter.
	booking := r.Group("/")
	booking.Use(middlewares.NewStrictRateLimiter())
	{
		booking.POST("/reservations", reservationCtrl.CreateReservation)
		booking.PATCH("/reservations/:reservation_id", reservationCtrl.UpdateReservation)
	}

	// RESERVATIONS
	r.GET("/reservations", reservationCtrl.GetAllReservations)
	r.GET("/reservations/:reservation_id", reservationCtrl.GetReservationByID)
	r.GET("/reservations/code/:code", reservationCtrl.GetReservationByCode)
	r.GET("/reservations/phone/:phone", reservationCtrl.GetReservationsByPhone)
	r.POST("/reservations/:reservation_id/cancel", reservationCtrl.CancelReservation)
	r.POST("/reservations/:reservation_id/confirm", reservationCtrl.ConfirmReservation)
	r.POST("/reservations/:reservation_id/seat", reservationCtrl.SeatReservation)
	r.POST("/reservations/:reservation_id/complete", reservationCtrl.CompleteReservation)
	r.POST("/reservations/:reservation_id/no-show", reservationCtrl.MarkNoShow)
	r.PATCH("/reservations/:reservation_id/status", reservationCtrl.ChangeStatus)
	r.DELETE("/reservations/:reservation_id", reservationCtrl.DeleteReservation)

	// TABLES
	r.GET("/tables", tableCtrl.GetAllTables)
	r.POST("/tables", tableCtrl.CreateTable)
	r.GET("/tables/:table_id", tableCtrl.GetTableByID)
	r.PATCH("/tables/:table_id", tableCtrl.UpdateTable)
	r.DELETE("/tables/:table_id", tableCtrl.DeleteTable)

	return r
}
