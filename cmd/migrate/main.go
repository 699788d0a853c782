// Command migrate prepares the configured database and optionally seeds an admin account.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"estate/config"
	"estate/internal/domain/entity"
	"estate/internal/domain/repository"
	"estate/internal/domain/service"
	"estate/internal/errors"
	"estate/internal/infra/auth"
	logs "estate/internal/infra/log"
	mongostore "estate/internal/infra/persistence/mongo"
	"estate/internal/infra/persistence/postgres"

	"go.uber.org/fx"
)

type adminFlags struct {
	email    string
	password string
	name     string
	contact  string
}

type migrateParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Config *config.Config
	Logger *slog.Logger
	Hasher service.PasswordHasher
}

func main() {
	var admin adminFlags
	flag.StringVar(&admin.email, "admin-email", "", "Email of the admin account to seed (optional)")
	flag.StringVar(&admin.password, "admin-password", "", "Password of the seeded admin")
	flag.StringVar(&admin.name, "admin-name", "Administrator", "Display name of the seeded admin")
	flag.StringVar(&admin.contact, "admin-contact", "0000000000", "10-digit contact of the seeded admin")
	flag.Parse()

	if admin.email != "" && len(admin.password) < 8 {
		fmt.Fprintln(os.Stderr, "-admin-password must be at least 8 characters")
		os.Exit(2)
	}

	// Run exits with the code passed to Shutdown.
	fx.New(
		fx.NopLogger,
		fx.Provide(
			config.New,
			logs.New,
			auth.NewBcryptHasher,
		),
		fx.Supply(admin),
		fx.Invoke(run),
	).Run()
}

// run registers the migration after the connection hooks so it sees a live database.
func run(params migrateParams, admin adminFlags) error {
	var (
		accounts repository.AccountRepository
		migrate  func(ctx context.Context) error
	)

	switch params.Config.Database.Driver {
	case config.DatabaseDriverPostgres:
		db, err := postgres.New(postgres.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return err
		}
		accounts = postgres.NewAccountRepository(db)
		migrate = func(ctx context.Context) error { return postgres.Migrate(ctx, db) }

	case config.DatabaseDriverMongo:
		db, err := mongostore.New(mongostore.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return err
		}
		accounts = mongostore.NewAccountRepository(db)
		migrate = func(ctx context.Context) error { return mongostore.EnsureIndexes(ctx, db) }

	default:
		return errors.Errorf("unknown database driver: %s", params.Config.Database.Driver)
	}

	params.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			err := migrate(ctx)
			if err == nil && admin.email != "" {
				err = seedAdmin(ctx, accounts, params.Hasher, admin, params.Logger)
			}

			exitCode := 0
			if err != nil {
				params.Logger.Error("Migration failed", slog.Any("error", err))
				exitCode = 1
			} else {
				params.Logger.Info("Migration finished", slog.String("driver", params.Config.Database.Driver))
			}

			return params.Shutdown(fx.ExitCode(exitCode))
		},
	})

	return nil
}

func seedAdmin(ctx context.Context, accounts repository.AccountRepository, hasher service.PasswordHasher, admin adminFlags, logger *slog.Logger) error {
	email := strings.ToLower(strings.TrimSpace(admin.email))

	hash, err := hasher.Hash(admin.password)
	if err != nil {
		return errors.Wrap(err, "hash admin password")
	}

	err = accounts.Create(ctx, &entity.Account{
		Name:         admin.name,
		Email:        email,
		PasswordHash: hash,
		Contact:      admin.contact,
		Role:         entity.RoleAdmin,
	})
	switch {
	case err == nil:
		logger.Info("Admin account created", slog.String("email", email))
	case errors.Is(err, repository.ErrAccountAlreadyExists):
		logger.Info("Admin account already exists, leaving it untouched", slog.String("email", email))
	default:
		return errors.Wrap(err, "create admin account")
	}

	return nil
}
