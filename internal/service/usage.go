package service

import (
	"log"
	"time"

	"license-activation-service/internal/model"

	"gorm.io/gorm"
)

// UsageService records one audit row per protocol request. Recording is
// best-effort: a failed insert is logged, never surfaced to the client.
type UsageService struct {
	db *gorm.DB
}

func NewUsageService(db *gorm.DB) *UsageService {
	return &UsageService{db: db}
}

func (s *UsageService) Record(usage model.LicenseUsage) {
	usage.Timestamp = time.Now()
	if err := s.db.Create(&usage).Error; err != nil {
		log.Printf("record license usage: %v", err)
	}
}

// ForLicense returns the most recent usage rows for a license key.
func (s *UsageService) ForLicense(key string, limit int) ([]model.LicenseUsage, error) {
	var usages []model.LicenseUsage
	err := s.db.
		Where("license_key = ?", key).
		Order("timestamp desc").
		Limit(limit).
		Find(&usages).Error
	if err != nil {
		return nil, err
	}
	return usages, nil
}

// ProductStatistic is one row of the per-product active-activation report.
type ProductStatistic struct {
	ApiProductID string `json:"api_product_id"`
	ActiveCount  int64  `json:"active_count"`
}

// ActiveByProduct counts currently active activations grouped by product.
func (s *UsageService) ActiveByProduct() ([]ProductStatistic, error) {
	var stats []ProductStatistic
	err := s.db.Model(&model.Activation{}).
		Select("api_product_id, count(*) as active_count").
		Where("active = ?", true).
		Group("api_product_id").
		Order("api_product_id asc").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}
