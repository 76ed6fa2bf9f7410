package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/epicevents/crm/internal/core/domain"
)

const selectClient = `SELECT id, full_name, email, phone, company_name, creation_date, last_contact_date, owning_commercial_id FROM clients`

type ClientRepository struct {
	db *pgxpool.Pool
}

func NewClientRepository(db *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{db: db}
}

func scanClient(row pgx.Row) (*domain.Client, error) {
	var c domain.Client
	err := row.Scan(&c.ID, &c.FullName, &c.Email, &c.Phone, &c.CompanyName,
		&c.CreationDate, &c.LastContactDate, &c.OwningCommercialID)
	if err != nil {
		return nil, err
	}
	c.CreationDate = c.CreationDate.UTC()
	c.LastContactDate = c.LastContactDate.UTC()
	return &c, nil
}

func (r *ClientRepository) FindByID(ctx context.Context, id int64) (*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	c, err := scanClient(r.db.QueryRow(ctx, selectClient+` WHERE id = $1`, id))
	if err != nil {
		return nil, translate("find client", err)
	}
	return c, nil
}

func (r *ClientRepository) List(ctx context.Context) ([]*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, selectClient+` ORDER BY id`)
	if err != nil {
		return nil, translate("list clients", err)
	}
	defer rows.Close()

	out := make([]*domain.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, translate("scan client", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list clients", err)
	}
	return out, nil
}

func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err := r.db.QueryRow(ctx,
		`INSERT INTO clients (full_name, email, phone, company_name, creation_date, last_contact_date, owning_commercial_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		c.FullName, c.Email, c.Phone, c.CompanyName, c.CreationDate.UTC(), c.LastContactDate.UTC(), c.OwningCommercialID,
	).Scan(&c.ID)
	if err != nil {
		return translate("insert client", err)
	}
	return nil
}

func (r *ClientRepository) Update(ctx context.Context, c *domain.Client) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx,
		`UPDATE clients SET full_name = $2, email = $3, phone = $4, company_name = $5,
		 last_contact_date = $6, owning_commercial_id = $7 WHERE id = $1`,
		c.ID, c.FullName, c.Email, c.Phone, c.CompanyName, c.LastContactDate.UTC(), c.OwningCommercialID,
	)
	if err != nil {
		return translate("update client", err)
	}
	return affected(tag)
}
