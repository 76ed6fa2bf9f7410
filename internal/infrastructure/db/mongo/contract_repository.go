package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
)

const collectionContracts = "contracts"

var zeroAmount, _ = primitive.ParseDecimal128("0")

type ContractRepository struct {
	col *mongo.Collection
	ids sequence
}

func NewContractRepository(db *mongo.Database) *ContractRepository {
	return &ContractRepository{col: db.Collection(collectionContracts), ids: newSequence(db, collectionContracts)}
}

// Amounts are stored as Decimal128 so that range queries compare them
// numerically.
type contractDoc struct {
	ID              int64                `bson:"_id"`
	ClientID        int64                `bson:"client_id"`
	TotalAmount     primitive.Decimal128 `bson:"total_amount"`
	RemainingAmount primitive.Decimal128 `bson:"remaining_amount"`
	Status          string               `bson:"status"`
	CreationDate    time.Time            `bson:"creation_date"`
}

func toContractDoc(c *domain.Contract) (contractDoc, error) {
	total, err := primitive.ParseDecimal128(c.TotalAmount.StringFixed(2))
	if err != nil {
		return contractDoc{}, fmt.Errorf("encode total amount: %w", err)
	}
	remaining, err := primitive.ParseDecimal128(c.RemainingAmount.StringFixed(2))
	if err != nil {
		return contractDoc{}, fmt.Errorf("encode remaining amount: %w", err)
	}
	return contractDoc{
		ID:              c.ID,
		ClientID:        c.ClientID,
		TotalAmount:     total,
		RemainingAmount: remaining,
		Status:          string(c.Status),
		CreationDate:    c.CreationDate.UTC(),
	}, nil
}

func (d contractDoc) toDomain() (*domain.Contract, error) {
	total, err := decimal.NewFromString(d.TotalAmount.String())
	if err != nil {
		return nil, fmt.Errorf("decode total amount of contract %d: %w", d.ID, err)
	}
	remaining, err := decimal.NewFromString(d.RemainingAmount.String())
	if err != nil {
		return nil, fmt.Errorf("decode remaining amount of contract %d: %w", d.ID, err)
	}
	return &domain.Contract{
		ID:              d.ID,
		ClientID:        d.ClientID,
		TotalAmount:     total,
		RemainingAmount: remaining,
		Status:          domain.ContractStatus(d.Status),
		CreationDate:    d.CreationDate.UTC(),
	}, nil
}

func (r *ContractRepository) FindByID(ctx context.Context, id int64) (*domain.Contract, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc contractDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, translate("find contract", err)
	}
	return doc.toDomain()
}

func contractFilter(f ports.ContractFilter) bson.M {
	filter := bson.M{}
	if f.Signed != nil {
		status := domain.ContractUnsigned
		if *f.Signed {
			status = domain.ContractSigned
		}
		filter["status"] = string(status)
	}
	if f.Paid != nil {
		if *f.Paid {
			filter["remaining_amount"] = zeroAmount
		} else {
			filter["remaining_amount"] = bson.M{"$gt": zeroAmount}
		}
	}
	return filter
}

func (r *ContractRepository) List(ctx context.Context, f ports.ContractFilter) ([]*domain.Contract, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, contractFilter(f), options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, translate("list contracts", err)
	}
	var docs []contractDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, translate("decode contracts", err)
	}

	out := make([]*domain.Contract, 0, len(docs))
	for _, d := range docs {
		c, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *ContractRepository) Create(ctx context.Context, c *domain.Contract) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toContractDoc(c)
	if err != nil {
		return err
	}
	if doc.ID, err = r.ids.next(ctx); err != nil {
		return err
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return translate("insert contract", err)
	}
	c.ID = doc.ID
	return nil
}

func (r *ContractRepository) Update(ctx context.Context, c *domain.Contract) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toContractDoc(c)
	if err != nil {
		return err
	}
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": c.ID}, doc)
	if err != nil {
		return translate("update contract", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
