package cli

import (
	"errors"
	"sort"

	"github.com/spf13/cobra"

	"foodshare/internal/infrastructure/storage"
	"foodshare/internal/usecase"
)

func (c *CLI) newCleanupCmd() *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete every application document and every stored blob",
		Long: `Empties the users, foodItems, chats, activities, reservations and
notifications collections, then every object in STORAGE_BUCKET when one is
configured. This cannot be undone.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return errors.New("cleanup deletes all data, pass --yes to confirm")
			}
			return c.runCleanup(cmd)
		},
	}

	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm deletion of all data")
	return cmd
}

func (c *CLI) runCleanup(cmd *cobra.Command) error {
	ctx := cmd.Context()

	backend, err := c.open(ctx, c.cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	var blobs usecase.BlobStore
	if c.cfg.StorageBucket != "" && backend.Clients != nil {
		client, err := storage.NewCloudStorageClient(ctx, c.cfg.StorageBucket, backend.Clients.Option)
		if err != nil {
			return err
		}
		defer client.Close()
		blobs = client
	}

	report, err := usecase.NewMaintenanceUseCase(backend.Purger, blobs).Cleanup(ctx)
	if err != nil {
		return err
	}

	if c.jsonOutput {
		return c.outputJSON(report)
	}

	collections := make([]string, 0, len(report.Documents))
	for name := range report.Documents {
		collections = append(collections, name)
	}
	sort.Strings(collections)
	for _, name := range collections {
		c.printf("%-14s %d documents deleted\n", name, report.Documents[name])
	}
	c.printf("%-14s %d objects deleted\n", "storage", report.Blobs)
	return nil
}
