package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/maxpot/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type AccountsRepo struct {
	db *pgxpool.Pool
}

func NewAccountsRepo(db *pgxpool.Pool) *AccountsRepo {
	return &AccountsRepo{
		db: db,
	}
}

func (r *AccountsRepo) Create(ctx context.Context, account *Account) error {
	if account.ID == "" || account.Username == "" || account.PasswordHash == "" {
		return errors.New("account id, username or password hash empty")
	}

	_, err := r.db.Exec(
		ctx,
		`INSERT INTO account (id, username, password_hash, created_at) VALUES ($1, $2, $3, $4);`,
		account.ID, account.Username, account.PasswordHash, account.CreatedAt,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return ErrUserExists
		}
		return fmt.Errorf("insert account: %w", err)
	}

	return nil
}

func (r *AccountsRepo) GetByUsername(ctx context.Context, username string) (*Account, error) {
	var account Account
	err := r.db.QueryRow(
		ctx,
		`SELECT id, username, password_hash, created_at FROM account WHERE username = $1;`,
		username,
	).Scan(&account.ID, &account.Username, &account.PasswordHash, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("select account: %w", err)
	}

	return &account, nil
}
