package model

import (
	"time"
)

// License is the aggregate root: one purchased key granting access to a set
// of products, with a cap on simultaneously active installs.
type License struct {
	Key             string       `json:"key" gorm:"primaryKey"`
	ActivationEmail string       `json:"activation_email" gorm:"not null"`
	ActivationLimit int          `json:"activation_limit"` // <= 0 means unlimited
	ExpiresAt       *time.Time   `json:"expires_at"`       // nil means never
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
	Products        []ApiProduct `json:"products" gorm:"foreignKey:LicenseKey;references:Key"`
	Activations     []Activation `json:"activations" gorm:"foreignKey:LicenseKey;references:Key"`
}

func (l *License) Expired() bool {
	return l.ExpiresAt != nil && l.ExpiresAt.Before(time.Now())
}

// HasProduct reports whether the license grants access to the product slug.
func (l *License) HasProduct(slug string) bool {
	for _, p := range l.Products {
		if p.Slug == slug {
			return true
		}
	}
	return false
}

// ApiProduct is one product slug a license grants access to.
type ApiProduct struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	LicenseKey string `json:"license_key" gorm:"index;not null"`
	Slug       string `json:"slug" gorm:"not null"`
}
