package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

const keystoneMigration = `
CREATE TABLE IF NOT EXISTS users (
    id bigserial PRIMARY KEY,
    account text NOT NULL UNIQUE,
    password_hash text NOT NULL,
    email text NOT NULL DEFAULT '',
    created_at timestamptz NOT NULL DEFAULT NOW()
);
`

// Migrate creates the users table if it does not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, keystoneMigration)
	return err
}

// PostgresRepository stores accounts in Postgres.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (p *PostgresRepository) FindByAccount(ctx context.Context, account string) (*User, error) {
	var u User
	err := p.db.QueryRowContext(ctx, `
		SELECT id, account, password_hash, email
		FROM users
		WHERE account = $1
	`, account).Scan(&u.ID, &u.Account, &u.PasswordHash, &u.Email)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (p *PostgresRepository) Save(ctx context.Context, reg Registration) (*User, error) {
	hash, err := HashPassword(reg.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Account:      reg.Account,
		PasswordHash: hash,
		Email:        reg.Email,
	}

	err = p.db.QueryRowContext(ctx, `
		INSERT INTO users (account, password_hash, email)
		VALUES ($1, $2, $3)
		RETURNING id
	`, reg.Account, hash, reg.Email).Scan(&u.ID)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return nil, ErrDuplicateAccount
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
