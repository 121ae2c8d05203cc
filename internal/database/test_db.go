package database

import (
	"fmt"
	"sync/atomic"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

var testDBSeq atomic.Int64

// OpenTest returns a fresh in-memory database with all models migrated.
// Each call gets its own named memory database so tests stay isolated
// while gorm's pooled connections still see the same schema.
func OpenTest() *gorm.DB {
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("failed to connect test database")
	}
	if err := migrate(db); err != nil {
		panic("failed to migrate test database")
	}
	return db
}

// CloseTest releases the in-memory database.
func CloseTest(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	sqlDB.Close()
}
