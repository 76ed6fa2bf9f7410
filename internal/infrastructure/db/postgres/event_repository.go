package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
)

const selectEvent = `SELECT id, contract_id, start_at, end_at, location, attendees, notes, support_contact_id FROM events`

type EventRepository struct {
	db *pgxpool.Pool
}

func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var e domain.Event
	err := row.Scan(&e.ID, &e.ContractID, &e.Start, &e.End, &e.Location, &e.Attendees, &e.Notes, &e.SupportContactID)
	if err != nil {
		return nil, err
	}
	e.Start = e.Start.UTC()
	e.End = e.End.UTC()
	return &e, nil
}

func (r *EventRepository) FindByID(ctx context.Context, id int64) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	e, err := scanEvent(r.db.QueryRow(ctx, selectEvent+` WHERE id = $1`, id))
	if err != nil {
		return nil, translate("find event", err)
	}
	return e, nil
}

func (r *EventRepository) List(ctx context.Context, f ports.EventFilter) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	w := eventWhere(f)
	rows, err := r.db.Query(ctx, selectEvent+w.String()+` ORDER BY start_at, id`, w.args...)
	if err != nil {
		return nil, translate("list events", err)
	}
	defer rows.Close()

	out := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, translate("scan event", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list events", err)
	}
	return out, nil
}

func (r *EventRepository) Create(ctx context.Context, e *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err := r.db.QueryRow(ctx,
		`INSERT INTO events (contract_id, start_at, end_at, location, attendees, notes, support_contact_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		e.ContractID, e.Start.UTC(), e.End.UTC(), e.Location, e.Attendees, e.Notes, e.SupportContactID,
	).Scan(&e.ID)
	if err != nil {
		return translate("insert event", err)
	}
	return nil
}

func (r *EventRepository) Update(ctx context.Context, e *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx,
		`UPDATE events SET start_at = $2, end_at = $3, location = $4, attendees = $5, notes = $6,
		 support_contact_id = $7 WHERE id = $1`,
		e.ID, e.Start.UTC(), e.End.UTC(), e.Location, e.Attendees, e.Notes, e.SupportContactID,
	)
	if err != nil {
		return translate("update event", err)
	}
	return affected(tag)
}
