package db

import (
	"log"

	"boletera/src/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

// GetDb opens the shared connection on first use. The handle is handed to
// the services at construction time in main; nothing outside the wiring
// path should reach for this directly.
func GetDb() *gorm.DB {
	if db != nil {
		return db
	}
	// TranslateError is required: the admission log's replay guard depends
	// on unique violations surfacing as gorm.ErrDuplicatedKey.
	_db, err := gorm.Open(postgres.Open(config.GetDSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Printf("Error connecting to database: %s\n", err.Error())
		panic(err)
	}
	sqlDB, err := _db.DB()
	if err != nil {
		log.Fatalf("Error establishing connection to database: %s\n", err.Error())
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	db = _db
	return _db
}

func NewDB(newdb *gorm.DB) {
	db = newdb
}
