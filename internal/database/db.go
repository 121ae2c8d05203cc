package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"license-activation-service/internal/model"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Open connects to the sqlite database at path, creating the parent
// directory if needed, and migrates all models.
func Open(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.License{},
		&model.ApiProduct{},
		&model.Activation{},
		&model.LicenseUsage{},
		&model.User{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

// SeedAdmin creates the default admin account on first run.
func SeedAdmin(db *gorm.DB, password string) error {
	var count int64
	db.Model(&model.User{}).Where("username = ?", "admin").Count(&count)
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := &model.User{
		Username:  "admin",
		Password:  string(hashed),
		Role:      "admin",
		CreatedAt: time.Now(),
	}
	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("create admin account: %w", err)
	}
	return nil
}
