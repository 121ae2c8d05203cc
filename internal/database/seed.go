package database

import (
	"fmt"
	"log"
	"time"

	"license-activation-service/internal/model"
	"license-activation-service/internal/util"

	"gorm.io/gorm"
)

// SeedDemo creates one development license with a generated key so the
// activation endpoint can be exercised on a fresh database.
func SeedDemo(db *gorm.DB) error {
	var count int64
	db.Model(&model.License{}).Count(&count)
	if count > 0 {
		return nil
	}

	expires := time.Now().AddDate(1, 0, 0)
	license := &model.License{
		Key:             util.NewLicenseKey(),
		ActivationEmail: "demo@example.com",
		ActivationLimit: 3,
		ExpiresAt:       &expires,
		Products: []model.ApiProduct{
			{Slug: "demo-product"},
		},
	}
	if err := db.Create(license).Error; err != nil {
		return fmt.Errorf("seed demo license: %w", err)
	}

	log.Printf("seeded demo license %s", license.Key)
	return nil
}
