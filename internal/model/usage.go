package model

import "time"

// LicenseUsage is one audit row per inbound protocol request.
type LicenseUsage struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	LicenseKey string    `json:"license_key" gorm:"index"`
	Action     string    `json:"action"` // "activate", "deactivate"
	Instance   string    `json:"instance"`
	Result     string    `json:"result"` // "success" or the failure code
	IPAddress  string    `json:"ip_address"`
	UserAgent  string    `json:"user_agent"`
	Timestamp  time.Time `json:"timestamp"`
}
