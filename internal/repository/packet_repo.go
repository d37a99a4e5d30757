// Package repository implements the data access layer for the packet tracker.
// This file handles packet rows and the eager loading of their signature
// collections.
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

// PacketRepository handles packet-related database operations.
type PacketRepository struct {
	db database.Querier
}

// NewPacketRepository creates a PacketRepository bound to the given handle.
func NewPacketRepository(db database.Querier) *PacketRepository {
	return &PacketRepository{db: db}
}

const packetSelect = `
    SELECT p.id, p.freshman_username, p.start, p."end", f.name
    FROM packet p
    JOIN freshman f ON f.rit_username = p.freshman_username
`

// FindDetail loads a packet together with its freshman's name and all three
// signature collections. Signature math runs over this fully loaded form so
// required/received counts never issue further queries.
//
// Returns apierr.ErrBadPacketID if the packet does not exist.
func (r *PacketRepository) FindDetail(ctx context.Context, packetID int) (*models.PacketDetail, error) {
	return r.findDetail(ctx, packetID, false)
}

// FindDetailForUpdate is FindDetail with the packet row locked for the
// duration of the surrounding transaction. Taking the lock before reading the
// signature collections serializes concurrent signs of the same packet, which
// is what makes the completion transition well defined.
func (r *PacketRepository) FindDetailForUpdate(ctx context.Context, packetID int) (*models.PacketDetail, error) {
	return r.findDetail(ctx, packetID, true)
}

func (r *PacketRepository) findDetail(ctx context.Context, packetID int, forUpdate bool) (*models.PacketDetail, error) {
	query := packetSelect + ` WHERE p.id = $1`
	if forUpdate {
		query += ` FOR UPDATE OF p`
	}

	var detail models.PacketDetail
	err := r.db.QueryRow(ctx, query, packetID).Scan(
		&detail.ID, &detail.FreshmanUsername, &detail.Start, &detail.End, &detail.FreshmanName,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apierr.ErrBadPacketID
	}
	if err != nil {
		return nil, err
	}

	sigs := NewSignatureRepository(r.db)
	if detail.UpperSignatures, err = sigs.ListUpper(ctx, packetID); err != nil {
		return nil, err
	}
	if detail.FreshSignatures, err = sigs.ListFresh(ctx, packetID); err != nil {
		return nil, err
	}
	if detail.MiscSignatures, err = sigs.ListMisc(ctx, packetID); err != nil {
		return nil, err
	}

	return &detail, nil
}

// ListOpen retrieves all packets whose window contains the given instant.
func (r *PacketRepository) ListOpen(ctx context.Context, now time.Time) ([]models.Packet, error) {
	query := `
        SELECT id, freshman_username, start, "end"
        FROM packet
        WHERE start < $1 AND "end" > $1
        ORDER BY id
    `
	return r.list(ctx, query, now)
}

// ListByFreshman retrieves all packets owned by a freshman, newest first.
// A freshman can have multiple packets if they repeat the intro process.
func (r *PacketRepository) ListByFreshman(ctx context.Context, username string) ([]models.Packet, error) {
	query := `
        SELECT id, freshman_username, start, "end"
        FROM packet
        WHERE freshman_username = $1
        ORDER BY id DESC
    `
	return r.list(ctx, query, username)
}

func (r *PacketRepository) list(ctx context.Context, query string, args ...any) ([]models.Packet, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var packets []models.Packet
	for rows.Next() {
		var p models.Packet
		if err := rows.Scan(&p.ID, &p.FreshmanUsername, &p.Start, &p.End); err != nil {
			return nil, err
		}
		packets = append(packets, p)
	}

	return packets, rows.Err()
}
