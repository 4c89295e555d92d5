package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Istemamahmed20445/theo-inventory-management/internal/cache"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/domain"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/repository"
)

// ResetConfirmation is the exact phrase required to run the hard reset.
const ResetConfirmation = "RESET ALL DATA"

var ErrResetNotConfirmed = errors.New("reset confirmation phrase does not match")

// AdminService performs the destructive administrative operations.
type AdminService interface {
	// HardReset wipes every data table except users after verifying the
	// confirmation phrase. Each table maps to its deleted row count, or to
	// an error string when that table could not be purged.
	HardReset(ctx context.Context, confirmation, actor string) (map[string]interface{}, error)
}

type adminService struct {
	maintenanceRepo repository.MaintenanceRepository
	activityRepo    repository.ActivityRepository
	cache           *cache.Cache
}

// NewAdminService creates a new instance of AdminService
func NewAdminService(
	maintenanceRepo repository.MaintenanceRepository,
	activityRepo repository.ActivityRepository,
	c *cache.Cache,
) AdminService {
	return &adminService{
		maintenanceRepo: maintenanceRepo,
		activityRepo:    activityRepo,
		cache:           c,
	}
}

func (s *adminService) HardReset(ctx context.Context, confirmation, actor string) (map[string]interface{}, error) {
	if confirmation != ResetConfirmation {
		return nil, ErrResetNotConfirmed
	}

	results := s.maintenanceRepo.PurgeAll(ctx)

	s.cache.Reset()

	// The activities table was just wiped; recording the reset itself is
	// best effort.
	_ = s.activityRepo.Create(ctx, &domain.Activity{
		ID:        uuid.New(),
		Action:    "System Reset",
		Details:   "All data wiped by administrator",
		Username:  actor,
		CreatedAt: time.Now(),
	})

	return results, nil
}
