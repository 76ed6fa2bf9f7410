package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/epicevents/crm/internal/core/domain"
)

const selectAccount = `SELECT id, username, email, password_digest, role, created_at, updated_at FROM accounts`

type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	var role string
	if err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordDigest, &role, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Role = domain.Role(role)
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return &a, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	return r.findOne(ctx, selectAccount+` WHERE id = $1`, id)
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.findOne(ctx, selectAccount+` WHERE username = $1`, username)
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, selectAccount+` WHERE email = $1`, email)
}

func (r *AccountRepository) findOne(ctx context.Context, query string, arg any) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	a, err := scanAccount(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, translate("find account", err)
	}
	return a, nil
}

func (r *AccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, selectAccount+` ORDER BY id`)
	if err != nil {
		return nil, translate("list accounts", err)
	}
	defer rows.Close()

	out := make([]*domain.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, translate("scan account", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list accounts", err)
	}
	return out, nil
}

func (r *AccountRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n); err != nil {
		return 0, translate("count accounts", err)
	}
	return n, nil
}

func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err := r.db.QueryRow(ctx,
		`INSERT INTO accounts (username, email, password_digest, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		a.Username, a.Email, a.PasswordDigest, string(a.Role), a.CreatedAt.UTC(), a.UpdatedAt.UTC(),
	).Scan(&a.ID)
	if err != nil {
		return translate("insert account", err)
	}
	return nil
}

func (r *AccountRepository) Update(ctx context.Context, a *domain.Account) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx,
		`UPDATE accounts SET username = $2, email = $3, password_digest = $4, role = $5, updated_at = $6
		 WHERE id = $1`,
		a.ID, a.Username, a.Email, a.PasswordDigest, string(a.Role), a.UpdatedAt.UTC(),
	)
	if err != nil {
		return translate("update account", err)
	}
	return affected(tag)
}

func (r *AccountRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return translate("delete account", err)
	}
	return affected(tag)
}
