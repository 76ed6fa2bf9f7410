package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/epicevents/crm/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// translate maps driver errors onto the domain sentinels the services
// understand.
func translate(op string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return domain.ErrConflict
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

const collectionCounters = "counters"

// sequence hands out increasing int64 IDs for one collection.
type sequence struct {
	col  *mongo.Collection
	name string
}

func newSequence(db *mongo.Database, name string) sequence {
	return sequence{col: db.Collection(collectionCounters), name: name}
}

func (s sequence) next(ctx context.Context) (int64, error) {
	var doc struct {
		Value int64 `bson:"value"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": s.name}, bson.M{"$inc": bson.M{"value": 1}}, opts).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", s.name, err)
	}
	return doc.Value, nil
}

// EnsureIndexes creates the unique and lookup indexes of every collection.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	specs := map[string][]mongo.IndexModel{
		collectionAccounts: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collectionClients: {
			{Keys: bson.D{{Key: "owning_commercial_id", Value: 1}}},
		},
		collectionContracts: {
			{Keys: bson.D{{Key: "client_id", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		collectionEvents: {
			{Keys: bson.D{{Key: "contract_id", Value: 1}}},
			{Keys: bson.D{{Key: "support_contact_id", Value: 1}}},
		},
		collectionNotices: {
			{Keys: bson.D{{Key: "occurred_at", Value: -1}}},
		},
	}
	for name, indexes := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("create %s indexes: %w", name, err)
		}
	}
	return nil
}
