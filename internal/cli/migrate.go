package cli

import (
	"context"

	"mystery_boxes/internal/config"
	"mystery_boxes/internal/infrastructure/database"

	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the storage schema",
		Long: `Create the storage schema for the configured STORE_BACKEND.

postgres: applies the embedded goose migrations.
dynamodb: creates the settings, boxes and payment attempts tables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd.Context(), rootOpts)
		},
	}
}

func runMigrate(ctx context.Context, rootOpts *RootOptions) error {
	cfg, log, err := rootOpts.load()
	if err != nil {
		return err
	}

	switch cfg.StoreBackend {
	case config.BackendPostgres:
		db, err := database.OpenPostgres(ctx, cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
	default:
		ddb, err := database.ConnectDynamoDB(ctx, cfg)
		if err != nil {
			return err
		}
		if err := database.EnsureTables(ctx, ddb, cfg, log); err != nil {
			return err
		}
	}

	log.Info(ctx, "[setup][migrate] schema ready", "store", cfg.StoreBackend)
	return nil
}
