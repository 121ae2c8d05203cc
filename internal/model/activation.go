package model

import "time"

// Activation binds one installation instance to a license for one product.
// Records are never deleted: deactivation flips Active off so the same
// instance can be reactivated later without consuming a new slot.
type Activation struct {
	ID             uint      `json:"id" gorm:"primaryKey"` // 0 = not yet persisted
	LicenseKey     string    `json:"license_key" gorm:"index;not null"`
	ApiProductID   string    `json:"api_product_id" gorm:"not null"`
	Instance       string    `json:"instance" gorm:"not null"` // unique per license, not globally
	Active         bool      `json:"active"`
	ActivationDate time.Time `json:"activation_date"`
}
