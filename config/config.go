package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// AppConfig holds the process-wide reservation settings. It is loaded once at
// startup and passed by reference; nothing reads the environment after Load.
type AppConfig struct {
	Timezone          string
	Location          *time.Location
	BookingWindowDays int
	MinPartySize      int
	MaxPartySize      int
	MinDuration       int // minutes
	MaxDuration       int // minutes
	DefaultDuration   int // minutes, applied when a request omits duration
	NoShowGrace       time.Duration
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		Timezone:          getEnv("TIMEZONE", "Asia/Jakarta"),
		BookingWindowDays: getEnvInt("BOOKING_WINDOW_DAYS", 90),
		MinPartySize:      getEnvInt("MIN_PARTY_SIZE", 1),
		MaxPartySize:      getEnvInt("MAX_PARTY_SIZE", 50),
		MinDuration:       getEnvInt("MIN_DURATION_MINUTES", 30),
		MaxDuration:       getEnvInt("MAX_DURATION_MINUTES", 480),
		DefaultDuration:   getEnvInt("DEFAULT_DURATION_MINUTES", 120),
		NoShowGrace:       time.Duration(getEnvInt("NO_SHOW_GRACE_MINUTES", 30)) * time.Minute,
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	return cfg, nil
}

// InitDB opens the database connection. MySQL is used when DB_HOST is set,
// otherwise a local SQLite file keeps development and CI self-contained.
func InitDB() (*gorm.DB, error) {
	if host := os.Getenv("DB_HOST"); host != "" {
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			host,
			getEnv("DB_PORT", "3306"),
			getEnv("DB_NAME", "restaurant_reservation"),
		)
		return gorm.Open(mysql.Open(dsn), &gorm.Config{})
	}

	return gorm.Open(sqlite.Open(getEnv("DB_FILE", "reservation.db")), &gorm.Config{})
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
