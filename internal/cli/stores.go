package cli

import (
	"context"
	"database/sql"
	"fmt"

	"mystery_boxes/internal/adapter/persistence/repository"
	"mystery_boxes/internal/config"
	"mystery_boxes/internal/infrastructure/database"
	"mystery_boxes/internal/logging"
	"mystery_boxes/internal/usecase/interfaces"
)

// stores bundles the repositories of the configured backend.
type stores struct {
	settings interfaces.ISettingsRepository
	boxes    interfaces.IBoxRepository
	attempts interfaces.IPaymentAttemptRepository
	close    func() error
}

func openStores(ctx context.Context, cfg *config.Config, log logging.Logger) (*stores, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		db, err := database.OpenPostgres(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		log.Info(ctx, "[setup][database] postgres connected")
		return postgresStores(db), nil
	case config.BackendDynamoDB:
		ddb, err := database.ConnectDynamoDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		log.Info(ctx, "[setup][database] dynamodb client ready", "region", cfg.AWSRegion, "endpoint", cfg.DynamoDBEndpoint)
		return &stores{
			settings: repository.NewSettingsDynamoRepository(ddb, cfg.SettingsTable),
			boxes:    repository.NewBoxDynamoRepository(ddb, cfg.BoxesTable),
			attempts: repository.NewPaymentAttemptDynamoRepository(ddb, cfg.PaymentAttemptsTable, cfg.BoxesTable),
			close:    func() error { return nil },
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownStoreBackend, cfg.StoreBackend)
	}
}

func postgresStores(db *sql.DB) *stores {
	return &stores{
		settings: repository.NewSettingsPostgresRepository(db),
		boxes:    repository.NewBoxPostgresRepository(db),
		attempts: repository.NewPaymentAttemptPostgresRepository(db),
		close:    db.Close,
	}
}
