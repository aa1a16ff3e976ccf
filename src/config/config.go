package config

import (
	"fmt"
	"os"
	"time"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

const TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"

// Anti-abuse limit on a single purchase, not a technical constraint.
const MAX_TICKETS_PER_PURCHASE = 10

const (
	DEFAULT_RECENT_ENTRIES = 50
	MAX_PAGE_LIMIT         = 100
)

// How often the background sweep closes events whose end time has passed.
const EVENT_SWEEP_INTERVAL = time.Minute

const (
	TOPIC_TICKETS_PURCHASED  = "boletos-comprados"
	TOPIC_ADMISSION_RECORDED = "ingresos-registrados"
)
