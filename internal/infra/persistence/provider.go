// Package persistence selects the storage backends for the application.
package persistence

import (
	"log/slog"

	"thalassist/config"
	"thalassist/internal/domain/repository"
	"thalassist/internal/infra/metrics"
	"thalassist/internal/infra/persistence/memory"
	"thalassist/internal/infra/persistence/postgres"

	"go.uber.org/fx"
)

// AccountStoreParams defines the dependencies of the account store.
type AccountStoreParams struct {
	fx.In
	fx.Lifecycle

	Config  *config.Config
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// NewAccountRepository returns a Postgres-backed store when a database is
// configured and an in-memory one otherwise.
func NewAccountRepository(params AccountStoreParams) (repository.AccountRepository, error) {
	if params.Config.Postgres == nil {
		params.Logger.Info("Postgres not configured, accounts are kept in memory")

		return memory.NewAccountRepository(), nil
	}

	db, err := postgres.New(postgres.Params{
		Lifecycle: params.Lifecycle,
		Config:    params.Config,
		Logger:    params.Logger,
		Metrics:   params.Metrics,
	})
	if err != nil {
		return nil, err
	}

	return postgres.NewAccountRepository(db), nil
}
