package cli

import (
	"fmt"
	"time"

	"mystery_boxes/internal/auth"

	"github.com/spf13/cobra"
)

// NewAdminTokenCommand creates the admin-token command.
func NewAdminTokenCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "admin-token",
		Short: "Print an admin bearer token signed with ADMIN_PASSWORD",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := rootOpts.load()
			if err != nil {
				return err
			}
			now := time.Now().UTC()
			token, err := auth.Issue(cfg.AdminPassword, now)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", auth.ExpiresAt(now).Format(time.RFC3339))
			return nil
		},
	}
}
