package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
)

// Amounts travel as text so NUMERIC keeps its exact value.
const selectContract = `SELECT id, client_id, total_amount::text, remaining_amount::text, status, creation_date FROM contracts`

type ContractRepository struct {
	db *pgxpool.Pool
}

func NewContractRepository(db *pgxpool.Pool) *ContractRepository {
	return &ContractRepository{db: db}
}

func scanContract(row pgx.Row) (*domain.Contract, error) {
	var c domain.Contract
	var total, remaining, status string
	if err := row.Scan(&c.ID, &c.ClientID, &total, &remaining, &status, &c.CreationDate); err != nil {
		return nil, err
	}
	var err error
	if c.TotalAmount, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("contract %d total_amount: %w", c.ID, err)
	}
	if c.RemainingAmount, err = decimal.NewFromString(remaining); err != nil {
		return nil, fmt.Errorf("contract %d remaining_amount: %w", c.ID, err)
	}
	c.Status = domain.ContractStatus(status)
	c.CreationDate = c.CreationDate.UTC()
	return &c, nil
}

func (r *ContractRepository) FindByID(ctx context.Context, id int64) (*domain.Contract, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	c, err := scanContract(r.db.QueryRow(ctx, selectContract+` WHERE id = $1`, id))
	if err != nil {
		return nil, translate("find contract", err)
	}
	return c, nil
}

func (r *ContractRepository) List(ctx context.Context, f ports.ContractFilter) ([]*domain.Contract, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	w := contractWhere(f)
	rows, err := r.db.Query(ctx, selectContract+w.String()+` ORDER BY id`, w.args...)
	if err != nil {
		return nil, translate("list contracts", err)
	}
	defer rows.Close()

	out := make([]*domain.Contract, 0)
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, translate("scan contract", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list contracts", err)
	}
	return out, nil
}

func (r *ContractRepository) Create(ctx context.Context, c *domain.Contract) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err := r.db.QueryRow(ctx,
		`INSERT INTO contracts (client_id, total_amount, remaining_amount, status, creation_date)
		 VALUES ($1, $2::numeric, $3::numeric, $4, $5) RETURNING id`,
		c.ClientID, c.TotalAmount.StringFixed(2), c.RemainingAmount.StringFixed(2), string(c.Status), c.CreationDate.UTC(),
	).Scan(&c.ID)
	if err != nil {
		return translate("insert contract", err)
	}
	return nil
}

func (r *ContractRepository) Update(ctx context.Context, c *domain.Contract) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx,
		`UPDATE contracts SET total_amount = $2::numeric, remaining_amount = $3::numeric, status = $4
		 WHERE id = $1`,
		c.ID, c.TotalAmount.StringFixed(2), c.RemainingAmount.StringFixed(2), string(c.Status),
	)
	if err != nil {
		return translate("update contract", err)
	}
	return affected(tag)
}
