package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
)

const collectionEvents = "events"

// EventRepository implements ports.EventRepository using MongoDB.
type EventRepository struct {
	col *mongo.Collection
	ids sequence
}

func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{col: db.Collection(collectionEvents), ids: newSequence(db, collectionEvents)}
}

// SupportContactID is stored as null while unassigned.
type eventDoc struct {
	ID               int64     `bson:"_id"`
	ContractID       int64     `bson:"contract_id"`
	Start            time.Time `bson:"start"`
	End              time.Time `bson:"end"`
	Location         string    `bson:"location"`
	Attendees        int       `bson:"attendees"`
	Notes            string    `bson:"notes"`
	SupportContactID *int64    `bson:"support_contact_id"`
}

func toEventDoc(e *domain.Event) eventDoc {
	return eventDoc{
		ID:               e.ID,
		ContractID:       e.ContractID,
		Start:            e.Start.UTC(),
		End:              e.End.UTC(),
		Location:         e.Location,
		Attendees:        e.Attendees,
		Notes:            e.Notes,
		SupportContactID: e.SupportContactID,
	}
}

func (d eventDoc) toDomain() *domain.Event {
	return &domain.Event{
		ID:               d.ID,
		ContractID:       d.ContractID,
		Start:            d.Start.UTC(),
		End:              d.End.UTC(),
		Location:         d.Location,
		Attendees:        d.Attendees,
		Notes:            d.Notes,
		SupportContactID: d.SupportContactID,
	}
}

func (r *EventRepository) FindByID(ctx context.Context, id int64) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc eventDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, translate("find event", err)
	}
	return doc.toDomain(), nil
}

func eventFilter(f ports.EventFilter) bson.M {
	filter := bson.M{}
	switch {
	case f.UnassignedOnly && f.SupportContactID != nil:
		// Nothing can be both unassigned and assigned to someone.
		filter["_id"] = bson.M{"$exists": false}
	case f.UnassignedOnly:
		filter["support_contact_id"] = nil
	case f.SupportContactID != nil:
		filter["support_contact_id"] = *f.SupportContactID
	}
	return filter
}

func (r *EventRepository) List(ctx context.Context, f ports.EventFilter) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, eventFilter(f), options.Find().SetSort(bson.D{{Key: "start", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, translate("list events", err)
	}
	var docs []eventDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, translate("decode events", err)
	}

	out := make([]*domain.Event, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *EventRepository) Create(ctx context.Context, e *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.ids.next(ctx)
	if err != nil {
		return err
	}
	doc := toEventDoc(e)
	doc.ID = id
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return translate("insert event", err)
	}
	e.ID = id
	return nil
}

func (r *EventRepository) Update(ctx context.Context, e *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": e.ID}, toEventDoc(e))
	if err != nil {
		return translate("update event", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
