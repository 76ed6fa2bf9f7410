package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/epicevents/crm/internal/core/domain"
)

const collectionAccounts = "accounts"

type AccountRepository struct {
	col *mongo.Collection
	ids sequence
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{col: db.Collection(collectionAccounts), ids: newSequence(db, collectionAccounts)}
}

type accountDoc struct {
	ID             int64     `bson:"_id"`
	Username       string    `bson:"username"`
	Email          string    `bson:"email"`
	PasswordDigest string    `bson:"password_digest"`
	Role           string    `bson:"role"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

func toAccountDoc(a *domain.Account) accountDoc {
	return accountDoc{
		ID:             a.ID,
		Username:       a.Username,
		Email:          a.Email,
		PasswordDigest: a.PasswordDigest,
		Role:           string(a.Role),
		CreatedAt:      a.CreatedAt.UTC(),
		UpdatedAt:      a.UpdatedAt.UTC(),
	}
}

func (d accountDoc) toDomain() *domain.Account {
	return &domain.Account{
		ID:             d.ID,
		Username:       d.Username,
		Email:          d.Email,
		PasswordDigest: d.PasswordDigest,
		Role:           domain.Role(d.Role),
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}
}

func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc accountDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate("find account", err)
	}
	return doc.toDomain(), nil
}

func (r *AccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, translate("list accounts", err)
	}
	var docs []accountDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, translate("decode accounts", err)
	}

	out := make([]*domain.Account, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *AccountRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, translate("count accounts", err)
	}
	return n, nil
}

// Create relies on the unique username and email indexes to reject
// duplicates.
func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.ids.next(ctx)
	if err != nil {
		return err
	}
	doc := toAccountDoc(a)
	doc.ID = id
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return translate("insert account", err)
	}
	a.ID = id
	return nil
}

func (r *AccountRepository) Update(ctx context.Context, a *domain.Account) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": a.ID}, toAccountDoc(a))
	if err != nil {
		return translate("update account", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate("delete account", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
