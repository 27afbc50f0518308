package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodshare/internal/adapter/repository/memory"
	"foodshare/internal/bootstrap"
	"foodshare/internal/domain/entity"
	"foodshare/pkg/config"
)

func newTestCLI(store *memory.Store) (*CLI, *bytes.Buffer) {
	c := New()
	c.open = func(ctx context.Context, cfg *config.Config) (*bootstrap.Backend, error) {
		return &bootstrap.Backend{
			Users:        store.Users(),
			FoodItems:    store.FoodItems(),
			Reservations: store.Reservations(),
			Chats:        store.Chats(),
			Activities:   store.Activities(),
			Purger:       store.Purger(),
		}, nil
	}

	out := &bytes.Buffer{}
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(out)
	return c, out
}

func TestCleanupRequiresConfirmation(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Users().Create(context.Background(), &entity.User{ID: "u1", Name: "Ana"}))

	c, out := newTestCLI(store)
	c.rootCmd.SetArgs([]string{"cleanup"})

	assert.Equal(t, ExitFailure, c.Execute())
	assert.Contains(t, out.String(), "--yes")

	_, err := store.Users().GetByID(context.Background(), "u1")
	assert.NoError(t, err)
}

func TestCleanupEmptiesCollections(t *testing.T) {
	t.Setenv("STORAGE_BUCKET", "")
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Users().Create(ctx, &entity.User{ID: "u1", Name: "Ana"}))
	require.NoError(t, store.Users().Create(ctx, &entity.User{ID: "u2", Name: "Ben"}))
	require.NoError(t, store.FoodItems().Create(ctx, &entity.FoodItem{Title: "Soup", DonorID: "u1", Status: entity.FoodAvailable}))

	c, out := newTestCLI(store)
	c.rootCmd.SetArgs([]string{"cleanup", "--yes", "--json"})

	require.Equal(t, ExitSuccess, c.Execute(), out.String())

	var report struct {
		Documents map[string]int `json:"documents"`
		Blobs     int            `json:"blobs"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, 2, report.Documents["users"])
	assert.Equal(t, 1, report.Documents["foodItems"])
	assert.Equal(t, 0, report.Documents["notifications"])
	assert.Equal(t, 0, report.Blobs)

	_, err := store.Users().GetByID(ctx, "u1")
	assert.Error(t, err)
}

func TestDeleteUserRequiresUID(t *testing.T) {
	c, out := newTestCLI(memory.NewStore())
	c.rootCmd.SetArgs([]string{"delete-user"})

	assert.Equal(t, ExitFailure, c.Execute())
	assert.Contains(t, out.String(), "--uid is required")
}
