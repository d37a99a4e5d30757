// Package repository provides the data access layer for the packet tracker.
// Repositories hold an explicit database handle and issue raw parameterized
// SQL; the same code runs against the pool or inside a transaction because
// both satisfy database.Querier.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/JoelEager/packet/internal/apierr"
	"github.com/JoelEager/packet/internal/database"
	"github.com/JoelEager/packet/internal/models"
	"github.com/jackc/pgx/v5"
)

// FreshmanRepository handles freshman lookups and name search.
type FreshmanRepository struct {
	db database.Querier
}

// NewFreshmanRepository creates a FreshmanRepository bound to the given handle.
func NewFreshmanRepository(db database.Querier) *FreshmanRepository {
	return &FreshmanRepository{db: db}
}

// FindByUsername retrieves one freshman by their RIT username.
// Returns apierr.ErrBadUsername if no such freshman exists.
func (r *FreshmanRepository) FindByUsername(ctx context.Context, username string) (*models.Freshman, error) {
	query := `SELECT rit_username, name, onfloor FROM freshman WHERE rit_username = $1`

	var freshman models.Freshman
	err := r.db.QueryRow(ctx, query, username).Scan(
		&freshman.RITUsername, &freshman.Name, &freshman.OnFloor,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apierr.ErrBadUsername
	}
	if err != nil {
		return nil, err
	}

	return &freshman, nil
}

// SearchByName performs a case-insensitive substring search on freshman real
// names. The caller validates the term; this method only runs the query.
//
// Results are ordered by name so the API output is stable.
func (r *FreshmanRepository) SearchByName(ctx context.Context, term string) ([]models.Freshman, error) {
	query := `
        SELECT rit_username, name, onfloor
        FROM freshman
        WHERE name ILIKE '%' || $1 || '%'
        ORDER BY name
    `

	rows, err := r.db.Query(ctx, query, term)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.Freshman
	for rows.Next() {
		var freshman models.Freshman
		if err := rows.Scan(&freshman.RITUsername, &freshman.Name, &freshman.OnFloor); err != nil {
			return nil, err
		}
		results = append(results, freshman)
	}

	return results, rows.Err()
}

// HasOpenPacket reports whether the freshman has a packet whose window
// contains the given instant.
func (r *FreshmanRepository) HasOpenPacket(ctx context.Context, username string, now time.Time) (bool, error) {
	query := `
        SELECT EXISTS (
            SELECT 1 FROM packet
            WHERE freshman_username = $1 AND start < $2 AND "end" > $2
        )
    `

	var open bool
	if err := r.db.QueryRow(ctx, query, username, now).Scan(&open); err != nil {
		return false, err
	}
	return open, nil
}
