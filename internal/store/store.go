// Package store provides the gorm-backed implementations of the resolver
// and repository interfaces consumed by the activation handler.
package store

import (
	"context"
	"errors"
	"fmt"

	"license-activation-service/internal/model"

	"gorm.io/gorm"
)

// LicenseStore resolves License aggregates.
type LicenseStore struct {
	db *gorm.DB
}

func NewLicenseStore(db *gorm.DB) *LicenseStore {
	return &LicenseStore{db: db}
}

// Resolve loads the license with its granted products and the full
// activation set in insertion order. Unknown keys return (nil, nil).
func (s *LicenseStore) Resolve(ctx context.Context, key string) (*model.License, error) {
	var license model.License
	err := s.db.WithContext(ctx).
		Preload("Products").
		Preload("Activations", func(db *gorm.DB) *gorm.DB {
			return db.Order("id asc")
		}).
		Where("key = ?", key).
		First(&license).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve license: %w", err)
	}
	return &license, nil
}

// ActivationStore persists activation records.
type ActivationStore struct {
	db *gorm.DB
}

func NewActivationStore(db *gorm.DB) *ActivationStore {
	return &ActivationStore{db: db}
}

// ForLicense returns every activation record of the license, active and
// inactive, oldest first.
func (s *ActivationStore) ForLicense(ctx context.Context, key string) ([]model.Activation, error) {
	var activations []model.Activation
	err := s.db.WithContext(ctx).
		Where("license_key = ?", key).
		Order("id asc").
		Find(&activations).Error
	if err != nil {
		return nil, fmt.Errorf("load activations: %w", err)
	}
	return activations, nil
}

// Persist writes the record inside a transaction and returns the stored
// row. New records (ID 0) get their identity assigned here.
func (s *ActivationStore) Persist(ctx context.Context, a model.Activation) (model.Activation, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if a.ID == 0 {
			return tx.Create(&a).Error
		}
		return tx.Save(&a).Error
	})
	if err != nil {
		return model.Activation{}, fmt.Errorf("persist activation: %w", err)
	}
	return a, nil
}
