// Package repository provides persistence for connected Gmail accounts.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"outreach_backend/platform/apperr"
)

const accountNotFoundMessage = "gmail account not found"

// Repo implements the gmail accounts repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new gmail accounts repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Account is one connected mailbox.
type Account struct {
	ID           uuid.UUID
	UserEmail    string
	Label        *string
	AccessToken  string
	RefreshToken string
	TokenType    string
	Scope        *string
	ExpiresAt    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

const accountColumns = `id, user_email, label, access_token, refresh_token, token_type, scope, expires_at, created_at, updated_at`

func scanAccount(row pgx.Row) (Account, error) {
	var a Account
	err := row.Scan(
		&a.ID, &a.UserEmail, &a.Label, &a.AccessToken, &a.RefreshToken,
		&a.TokenType, &a.Scope, &a.ExpiresAt, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// InsertParams holds a freshly exchanged token set.
type InsertParams struct {
	UserEmail    string
	AccessToken  string
	RefreshToken string
	TokenType    string
	Scope        *string
	ExpiresAt    time.Time
}

// Insert stores a new connected account. Reconnecting the same mailbox adds
// a second row rather than replacing the first, so multiple mailboxes can
// coexist.
func (r *Repo) Insert(ctx context.Context, params InsertParams) (Account, error) {
	query := `
		INSERT INTO gmail_accounts (user_email, access_token, refresh_token, token_type, scope, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + accountColumns

	a, err := scanAccount(r.pool.QueryRow(ctx, query,
		params.UserEmail, params.AccessToken, params.RefreshToken, params.TokenType, params.Scope, params.ExpiresAt,
	))
	if err != nil {
		return Account{}, fmt.Errorf("insert gmail account: %w", err)
	}
	return a, nil
}

// GetByID retrieves an account.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Account, error) {
	query := `SELECT ` + accountColumns + ` FROM gmail_accounts WHERE id = $1`

	a, err := scanAccount(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, apperr.NotFound(accountNotFoundMessage)
		}
		return Account{}, fmt.Errorf("get gmail account: %w", err)
	}
	return a, nil
}

// MostRecent returns the newest connected account.
func (r *Repo) MostRecent(ctx context.Context) (Account, error) {
	query := `SELECT ` + accountColumns + ` FROM gmail_accounts ORDER BY created_at DESC LIMIT 1`

	a, err := scanAccount(r.pool.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, apperr.NotFound(accountNotFoundMessage)
		}
		return Account{}, fmt.Errorf("get most recent gmail account: %w", err)
	}
	return a, nil
}

// List lists all connected accounts, newest first.
func (r *Repo) List(ctx context.Context) ([]Account, error) {
	query := `SELECT ` + accountColumns + ` FROM gmail_accounts ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list gmail accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan gmail account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// UpdateAccessToken persists a refreshed access token and its expiry.
func (r *Repo) UpdateAccessToken(ctx context.Context, id uuid.UUID, accessToken string, expiresAt time.Time) error {
	query := `
		UPDATE gmail_accounts
		SET access_token = $2, expires_at = $3, updated_at = now()
		WHERE id = $1`

	if _, err := r.pool.Exec(ctx, query, id, accessToken, expiresAt); err != nil {
		return fmt.Errorf("update access token: %w", err)
	}
	return nil
}

// UpdateLabel renames an account for the settings screen.
func (r *Repo) UpdateLabel(ctx context.Context, id uuid.UUID, label string) error {
	result, err := r.pool.Exec(ctx, `UPDATE gmail_accounts SET label = $2, updated_at = now() WHERE id = $1`, id, label)
	if err != nil {
		return fmt.Errorf("update label: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(accountNotFoundMessage)
	}
	return nil
}

// Delete disconnects an account.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM gmail_accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete gmail account: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(accountNotFoundMessage)
	}
	return nil
}
