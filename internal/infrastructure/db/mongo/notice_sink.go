package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/epicevents/crm/internal/core/domain"
)

const collectionNotices = "notices"

// NoticeSink persists notices to the notices audit collection.
type NoticeSink struct {
	col *mongo.Collection
}

func NewNoticeSink(db *mongo.Database) *NoticeSink {
	return &NoticeSink{col: db.Collection(collectionNotices)}
}

type noticeDoc struct {
	Kind       string    `bson:"kind"`
	Message    string    `bson:"message"`
	Severity   string    `bson:"severity"`
	ActorID    int64     `bson:"actor_id"`
	SubjectID  int64     `bson:"subject_id"`
	OccurredAt time.Time `bson:"occurred_at"`
	RecordedAt time.Time `bson:"recorded_at"`
}

func (s *NoticeSink) Notify(ctx context.Context, n domain.Notice) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := noticeDoc{
		Kind:       string(n.Kind),
		Message:    n.Message,
		Severity:   string(n.Severity),
		ActorID:    n.ActorID,
		SubjectID:  n.SubjectID,
		OccurredAt: n.OccurredAt.UTC(),
		RecordedAt: time.Now().UTC(),
	}
	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert notice: %w", err)
	}
	return nil
}
