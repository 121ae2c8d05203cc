package service

import (
	"context"

	"license-activation-service/internal/activation"
	"license-activation-service/internal/model"
)

// SyncedRepository decorates an activation repository so every successful
// persist is mirrored to the sheet in the background.
type SyncedRepository struct {
	activation.ActivationRepository
	sheets *SheetSyncService
}

func NewSyncedRepository(repo activation.ActivationRepository, sheets *SheetSyncService) *SyncedRepository {
	return &SyncedRepository{ActivationRepository: repo, sheets: sheets}
}

func (r *SyncedRepository) Persist(ctx context.Context, a model.Activation) (model.Activation, error) {
	saved, err := r.ActivationRepository.Persist(ctx, a)
	if err == nil && r.sheets != nil {
		go r.sheets.SyncActivation(&saved)
	}
	return saved, err
}
