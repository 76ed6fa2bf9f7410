// Package store opens the repositories of the configured driver.
package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/epicevents/crm/internal/core/ports"
	"github.com/epicevents/crm/internal/infrastructure/config"
	"github.com/epicevents/crm/internal/infrastructure/db/memory"
	"github.com/epicevents/crm/internal/infrastructure/db/mongo"
	"github.com/epicevents/crm/internal/infrastructure/db/postgres"
	"github.com/epicevents/crm/internal/infrastructure/http/handlers"
)

// Store bundles the repositories of one driver with its readiness checks and
// any notice sinks the driver provides.
type Store struct {
	Accounts  ports.AccountRepository
	Clients   ports.ClientRepository
	Contracts ports.ContractRepository
	Events    ports.EventRepository

	Checks map[string]handlers.Check
	Sinks  []ports.EventSink

	close func(ctx context.Context) error
}

// Close releases the driver connections.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects to the store selected by cfg.StoreDriver and prepares its
// schema.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		return openMongo(ctx, cfg, log)
	case config.StorePostgres:
		return openPostgres(ctx, cfg, log)
	case config.StoreMemory:
		log.Warn().Msg("using in-memory store, data is lost on restart")
		return &Store{
			Accounts:  memory.NewAccountRepository(),
			Clients:   memory.NewClientRepository(),
			Contracts: memory.NewContractRepository(),
			Events:    memory.NewEventRepository(),
			Checks:    map[string]handlers.Check{},
		}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func openMongo(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	return &Store{
		Accounts:  mongo.NewAccountRepository(db),
		Clients:   mongo.NewClientRepository(db),
		Contracts: mongo.NewContractRepository(db),
		Events:    mongo.NewEventRepository(db),
		Checks:    map[string]handlers.Check{"mongodb": handlers.MongoCheck(db)},
		Sinks:     []ports.EventSink{mongo.NewNoticeSink(db)},
		close:     client.Disconnect,
	}, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	pool, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN})
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	log.Info().Msg("connected to postgres")

	return &Store{
		Accounts:  postgres.NewAccountRepository(pool),
		Clients:   postgres.NewClientRepository(pool),
		Contracts: postgres.NewContractRepository(pool),
		Events:    postgres.NewEventRepository(pool),
		Checks:    map[string]handlers.Check{"postgres": handlers.PostgresCheck(pool)},
		close: func(context.Context) error {
			pool.Close()
			return nil
		},
	}, nil
}
