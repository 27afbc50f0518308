package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"foodshare/internal/usecase"
)

func (c *CLI) newDeleteUserCmd() *cobra.Command {
	var uid string

	cmd := &cobra.Command{
		Use:   "delete-user",
		Short: "Run the account deletion cascade for one user",
		Long: `Deletes the user's donated food items and the chats they donated in,
their activities and reservations, their profile and finally their
credential. The cascade stops at the first failing step.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if uid == "" {
				return errors.New("--uid is required")
			}
			return c.runDeleteUser(cmd, uid)
		},
	}

	cmd.Flags().StringVar(&uid, "uid", "", "user id to delete")
	return cmd
}

func (c *CLI) runDeleteUser(cmd *cobra.Command, uid string) error {
	ctx := cmd.Context()

	backend, err := c.open(ctx, c.cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	sessions := usecase.NewSessionUseCase(
		backend.Clients.Auth,
		backend.Denylist,
		backend.Users,
		backend.FoodItems,
		backend.Chats,
		backend.Activities,
		backend.Reservations,
	)
	if err := sessions.DeleteUserData(ctx, uid); err != nil {
		return err
	}

	if c.jsonOutput {
		return c.outputJSON(map[string]string{"deleted": uid})
	}
	c.printf("Deleted user %s\n", uid)
	return nil
}

func (c *CLI) newTokenCmd() *cobra.Command {
	var uid string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an ID token for a user, for calling the API by hand",
		RunE: func(cmd *cobra.Command, args []string) error {
			if uid == "" {
				return errors.New("--uid is required")
			}
			if c.cfg.IsProduction() {
				return errors.New("token is disabled when ENVIRONMENT=production")
			}
			return c.runToken(cmd, uid)
		},
	}

	cmd.Flags().StringVar(&uid, "uid", "", "user id to mint a token for")
	return cmd
}

func (c *CLI) runToken(cmd *cobra.Command, uid string) error {
	ctx := cmd.Context()

	backend, err := c.open(ctx, c.cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	token, err := backend.Clients.Auth.IssueTestToken(ctx, uid)
	if err != nil {
		return err
	}

	if c.jsonOutput {
		return c.outputJSON(map[string]string{"uid": uid, "id_token": token})
	}
	c.printf("%s\n", token)
	return nil
}
