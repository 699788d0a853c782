// Package persistence selects the repository backend named by database.driver.
package persistence

import (
	"log/slog"

	"estate/config"
	"estate/internal/domain/repository"
	"estate/internal/errors"
	"estate/internal/infra/metrics"
	mongostore "estate/internal/infra/persistence/mongo"
	"estate/internal/infra/persistence/postgres"

	"go.uber.org/fx"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config   *config.Config
	Logger   *slog.Logger
	Recorder *metrics.Recorder `optional:"true"`
}

// Repositories is the set of repositories handed to the usecases.
type Repositories struct {
	fx.Out

	Accounts   repository.AccountRepository
	Properties repository.PropertyRepository
}

// NewRepositories connects the configured backend and builds its repositories.
func NewRepositories(params Params) (Repositories, error) {
	switch params.Config.Database.Driver {
	case config.DatabaseDriverPostgres:
		db, err := postgres.New(postgres.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
			Recorder:  params.Recorder,
		})
		if err != nil {
			return Repositories{}, err
		}

		return Repositories{
			Accounts:   postgres.NewAccountRepository(db),
			Properties: postgres.NewPropertyRepository(db),
		}, nil
	case config.DatabaseDriverMongo:
		db, err := mongostore.New(mongostore.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return Repositories{}, err
		}

		return Repositories{
			Accounts:   mongostore.NewAccountRepository(db),
			Properties: mongostore.NewPropertyRepository(db),
		}, nil
	default:
		return Repositories{}, errors.Errorf("unsupported database driver %q", params.Config.Database.Driver)
	}
}
