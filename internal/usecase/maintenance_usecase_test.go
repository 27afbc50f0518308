package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodshare/internal/domain/entity"
	"foodshare/pkg/errors"
)

type fakeBlobs struct {
	count int
	err   error
}

func (f *fakeBlobs) DeleteAll(ctx context.Context) (int, error) {
	return f.count, f.err
}

func TestCleanupEmptiesEverything(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	reserveBread(t, h)

	uc := NewMaintenanceUseCase(h.store.Purger(), &fakeBlobs{count: 3})
	report, err := uc.Cleanup(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Documents["users"])
	assert.Equal(t, 1, report.Documents["foodItems"])
	assert.Equal(t, 1, report.Documents["chats"])
	assert.Equal(t, 1, report.Documents["reservations"])
	assert.Equal(t, 0, report.Documents["notifications"])
	assert.Equal(t, 3, report.Blobs)

	items, err := h.store.FoodItems().ListByStatus(ctx, entity.FoodReserved)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCleanupWithoutBucket(t *testing.T) {
	h := newHarness(t)
	report, err := NewMaintenanceUseCase(h.store.Purger(), nil).Cleanup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Blobs)
}

func TestCleanupReportsBlobFailure(t *testing.T) {
	h := newHarness(t)
	_, err := NewMaintenanceUseCase(h.store.Purger(), &fakeBlobs{err: errors.Internal("bucket gone", nil)}).Cleanup(context.Background())
	assert.Error(t, err)
}
