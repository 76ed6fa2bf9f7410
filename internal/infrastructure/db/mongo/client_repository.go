package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/epicevents/crm/internal/core/domain"
)

const collectionClients = "clients"

type ClientRepository struct {
	col *mongo.Collection
	ids sequence
}

func NewClientRepository(db *mongo.Database) *ClientRepository {
	return &ClientRepository{col: db.Collection(collectionClients), ids: newSequence(db, collectionClients)}
}

type clientDoc struct {
	ID                 int64     `bson:"_id"`
	FullName           string    `bson:"full_name"`
	Email              string    `bson:"email"`
	Phone              string    `bson:"phone,omitempty"`
	CompanyName        string    `bson:"company_name,omitempty"`
	CreationDate       time.Time `bson:"creation_date"`
	LastContactDate    time.Time `bson:"last_contact_date"`
	OwningCommercialID int64     `bson:"owning_commercial_id"`
}

func toClientDoc(c *domain.Client) clientDoc {
	return clientDoc{
		ID:                 c.ID,
		FullName:           c.FullName,
		Email:              c.Email,
		Phone:              c.Phone,
		CompanyName:        c.CompanyName,
		CreationDate:       c.CreationDate.UTC(),
		LastContactDate:    c.LastContactDate.UTC(),
		OwningCommercialID: c.OwningCommercialID,
	}
}

func (d clientDoc) toDomain() *domain.Client {
	return &domain.Client{
		ID:                 d.ID,
		FullName:           d.FullName,
		Email:              d.Email,
		Phone:              d.Phone,
		CompanyName:        d.CompanyName,
		CreationDate:       d.CreationDate.UTC(),
		LastContactDate:    d.LastContactDate.UTC(),
		OwningCommercialID: d.OwningCommercialID,
	}
}

func (r *ClientRepository) FindByID(ctx context.Context, id int64) (*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc clientDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, translate("find client", err)
	}
	return doc.toDomain(), nil
}

func (r *ClientRepository) List(ctx context.Context) ([]*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, translate("list clients", err)
	}
	var docs []clientDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, translate("decode clients", err)
	}

	out := make([]*domain.Client, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.ids.next(ctx)
	if err != nil {
		return err
	}
	doc := toClientDoc(c)
	doc.ID = id
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return translate("insert client", err)
	}
	c.ID = id
	return nil
}

func (r *ClientRepository) Update(ctx context.Context, c *domain.Client) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": c.ID}, toClientDoc(c))
	if err != nil {
		return translate("update client", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
