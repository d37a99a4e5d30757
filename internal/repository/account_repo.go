// Package repository implements the data access layer for the packet tracker.
// This file handles login accounts and directory name lookups.
package repository

import (
	"context"
	"errors"

	"github.com/JoelEager/packet/internal/apierr"
	"github.com/JoelEager/packet/internal/database"
	"github.com/JoelEager/packet/internal/models"
	"github.com/jackc/pgx/v5"
)

// AccountRepository handles account lookups for authentication and for the
// member directory.
type AccountRepository struct {
	db database.Querier
}

// NewAccountRepository creates an AccountRepository bound to the given handle.
func NewAccountRepository(db database.Querier) *AccountRepository {
	return &AccountRepository{db: db}
}

// FindByUsername retrieves an account by username, including the password
// hash. Used during login; never expose the result directly in a response.
func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	query := `SELECT username, name, member, password_hash, created_at FROM accounts WHERE username = $1`

	var account models.Account
	err := r.db.QueryRow(ctx, query, username).Scan(
		&account.Username, &account.Name, &account.Member, &account.PasswordHash, &account.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apierr.ErrBadMember
	}
	if err != nil {
		return nil, err
	}

	return &account, nil
}

// LookupName retrieves only the display name for a username. Used by the
// directory service for presentation, never for authorization.
func (r *AccountRepository) LookupName(ctx context.Context, username string) (string, error) {
	query := `SELECT name FROM accounts WHERE username = $1`

	var name string
	err := r.db.QueryRow(ctx, query, username).Scan(&name)

	if errors.Is(err, pgx.ErrNoRows) {
		return "", apierr.ErrBadMember
	}
	if err != nil {
		return "", err
	}

	return name, nil
}
