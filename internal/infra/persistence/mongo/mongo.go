// Package mongo implements the account and property repositories on MongoDB.
package mongo

import (
	"context"
	"log/slog"

	"estate/config"
	"estate/internal/domain/lifecycle"
	"estate/internal/errors"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/fx"
)

const (
	accountsCollection   = "accounts"
	propertiesCollection = "properties"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New connects to the configured database. The client is pinged and the
// indexes are ensured on start, and it is disconnected on stop.
func New(params Params) (*mongo.Database, error) {
	db, err := Connect(params.Config.Mongo)
	if err != nil {
		return nil, err
	}
	client := db.Client()

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := client.Ping(ctx, readpref.Primary()); err != nil {
				return errors.Wrap(err, "failed to ping MongoDB")
			}
			if err := EnsureIndexes(ctx, db); err != nil {
				return err
			}

			params.Logger.Info("MongoDB connected", slog.String("database", db.Name()))

			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			return client.Disconnect(stopCtx)
		},
	})

	return db, nil
}

// Connect builds a client for cfg. The driver connects lazily, so no I/O happens here.
func Connect(cfg *config.MongoConfig) (*mongo.Database, error) {
	if cfg == nil || cfg.URI == "" {
		return nil, errors.New("mongo config with a uri is required for the mongo driver")
	}
	if cfg.Database == "" {
		return nil, errors.New("mongo database name is required")
	}

	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
		opts.SetServerSelectionTimeout(cfg.ConnectTimeout)
	}

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create MongoDB client")
	}

	return client.Database(cfg.Database), nil
}

// EnsureIndexes creates the unique email index and the moderation lookup indexes.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(accountsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bsonKeys("email"),
			Options: options.Index().SetUnique(true).SetName("uniq_accounts_email"),
		},
		{
			Keys:    bsonKeys("role", "isApproved"),
			Options: options.Index().SetName("idx_accounts_role_approval"),
		},
	})
	if err != nil {
		return errors.Wrap(err, "failed to create account indexes")
	}

	_, err = db.Collection(propertiesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bsonKeys("agentId"),
			Options: options.Index().SetName("idx_properties_agent"),
		},
		{
			Keys:    bsonKeys("isApproved"),
			Options: options.Index().SetName("idx_properties_approval"),
		},
	})
	if err != nil {
		return errors.Wrap(err, "failed to create property indexes")
	}

	return nil
}
