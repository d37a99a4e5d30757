// Package repository implements the data access layer for the packet tracker.
// This file handles the three signature tables. Upper and fresh rows are
// pre-populated and flipped in place; misc rows are created on demand and
// never mutated afterward.
package repository

import (
	"context"

	"github.com/JoelEager/packet/internal/database"
	"github.com/JoelEager/packet/internal/models"
)

// SignatureRepository handles reads and the single-row mutations on the
// signature tables. The sign flow runs these methods inside one transaction;
// the composite primary keys are the last line of defense against concurrent
// duplicate signatures.
type SignatureRepository struct {
	db database.Querier
}

// NewSignatureRepository creates a SignatureRepository bound to the given handle.
func NewSignatureRepository(db database.Querier) *SignatureRepository {
	return &SignatureRepository{db: db}
}

// ListUpper retrieves the upperclassman signature slots for a packet,
// signed rows first, then by last update.
func (r *SignatureRepository) ListUpper(ctx context.Context, packetID int) ([]models.UpperSignature, error) {
	query := `
        SELECT packet_id, member, signed, eboard, updated
        FROM signature_upper
        WHERE packet_id = $1
        ORDER BY signed DESC, updated
    `

	rows, err := r.db.Query(ctx, query, packetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sigs []models.UpperSignature
	for rows.Next() {
		var sig models.UpperSignature
		if err := rows.Scan(&sig.PacketID, &sig.Member, &sig.Signed, &sig.Eboard, &sig.Updated); err != nil {
			return nil, err
		}
		sigs = append(sigs, sig)
	}

	return sigs, rows.Err()
}

// ListFresh retrieves the freshman signature slots for a packet,
// signed rows first, then by last update.
func (r *SignatureRepository) ListFresh(ctx context.Context, packetID int) ([]models.FreshSignature, error) {
	query := `
        SELECT packet_id, freshman_username, signed, updated
        FROM signature_fresh
        WHERE packet_id = $1
        ORDER BY signed DESC, updated
    `

	rows, err := r.db.Query(ctx, query, packetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sigs []models.FreshSignature
	for rows.Next() {
		var sig models.FreshSignature
		if err := rows.Scan(&sig.PacketID, &sig.FreshmanUsername, &sig.Signed, &sig.Updated); err != nil {
			return nil, err
		}
		sigs = append(sigs, sig)
	}

	return sigs, rows.Err()
}

// ListMisc retrieves the misc signatures for a packet in signing order.
func (r *SignatureRepository) ListMisc(ctx context.Context, packetID int) ([]models.MiscSignature, error) {
	query := `
        SELECT packet_id, member, updated
        FROM signature_misc
        WHERE packet_id = $1
        ORDER BY updated
    `

	rows, err := r.db.Query(ctx, query, packetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sigs []models.MiscSignature
	for rows.Next() {
		var sig models.MiscSignature
		if err := rows.Scan(&sig.PacketID, &sig.Member, &sig.Updated); err != nil {
			return nil, err
		}
		sigs = append(sigs, sig)
	}

	return sigs, rows.Err()
}

// SignUpper flips an unsigned upperclassman slot to signed, setting the flag
// and the update timestamp as one state transition. Returns true if a row was
// flipped, false if the slot is missing or already signed.
func (r *SignatureRepository) SignUpper(ctx context.Context, packetID int, member string) (bool, error) {
	query := `
        UPDATE signature_upper
        SET signed = TRUE, updated = NOW()
        WHERE packet_id = $1 AND member = $2 AND signed = FALSE
    `

	tag, err := r.db.Exec(ctx, query, packetID, member)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// SignFresh flips an unsigned freshman slot to signed, setting the flag and
// the update timestamp together. Returns true if a row was flipped.
func (r *SignatureRepository) SignFresh(ctx context.Context, packetID int, username string) (bool, error) {
	query := `
        UPDATE signature_fresh
        SET signed = TRUE, updated = NOW()
        WHERE packet_id = $1 AND freshman_username = $2 AND signed = FALSE
    `

	tag, err := r.db.Exec(ctx, query, packetID, username)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// CreateMisc records a misc signature. ON CONFLICT DO NOTHING makes the
// insert idempotent under the (packet_id, member) primary key, so two
// concurrent signs by the same member cannot both succeed. Returns true if
// the row was created by this call.
func (r *SignatureRepository) CreateMisc(ctx context.Context, packetID int, member string) (bool, error) {
	query := `
        INSERT INTO signature_misc (packet_id, member)
        VALUES ($1, $2)
        ON CONFLICT (packet_id, member) DO NOTHING
    `

	tag, err := r.db.Exec(ctx, query, packetID, member)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
