package usecase

import (
	"context"

	"foodshare/internal/domain/repository"
	"foodshare/pkg/logger"
)

type MaintenanceUseCase struct {
	purger repository.CollectionPurger
	blobs  BlobStore
}

// NewMaintenanceUseCase accepts a nil blobs when no bucket is configured.
func NewMaintenanceUseCase(purger repository.CollectionPurger, blobs BlobStore) *MaintenanceUseCase {
	return &MaintenanceUseCase{
		purger: purger,
		blobs:  blobs,
	}
}

type CleanupReport struct {
	Documents map[string]int `json:"documents"`
	Blobs     int            `json:"blobs"`
}

// Cleanup empties every application collection and the blob bucket. It
// stops at the first failure.
func (uc *MaintenanceUseCase) Cleanup(ctx context.Context) (*CleanupReport, error) {
	report := &CleanupReport{Documents: make(map[string]int)}

	for _, collection := range repository.PurgeableCollections {
		n, err := uc.purger.Purge(ctx, collection)
		if err != nil {
			logger.Step("cleanup", collection, "*", err)
			return report, err
		}
		report.Documents[collection] = n
		logger.Info("Cleanup: deleted %d documents from %s", n, collection)
	}

	if uc.blobs != nil {
		n, err := uc.blobs.DeleteAll(ctx)
		if err != nil {
			logger.Step("cleanup", "storage", "*", err)
			return report, err
		}
		report.Blobs = n
		logger.Info("Cleanup: deleted %d storage objects", n)
	}

	return report, nil
}
