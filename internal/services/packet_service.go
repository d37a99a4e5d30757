// Package services provides the business logic layer for the packet tracker.
// This file implements the packet ledger: the signature computations exposed
// to the API and the single mutating operation, RecordSignature.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/JoelEager/packet/internal/apierr"
	"github.com/JoelEager/packet/internal/database"
	"github.com/JoelEager/packet/internal/models"
	"github.com/JoelEager/packet/internal/repository"
	"github.com/JoelEager/packet/internal/security"
)

// PacketService owns the packet ledger. Reads load a packet with its
// signature collections and derive counts in memory; the one write path,
// RecordSignature, runs as a single database transaction so concurrent signs
// of the same packet serialize on the packet row lock.
//
// The service receives the signer identity (uid + member flag) from the HTTP
// layer's session and trusts it verbatim.
type PacketService struct {
	db        database.DBInterface
	logger    *security.Logger
	notifier  Notifier
	validator *security.ValidationService

	// now is stubbed in tests to pin the open-window boundaries.
	now func() time.Time
}

// NewPacketService creates a PacketService over the given database handle.
func NewPacketService(db database.DBInterface, logger *security.Logger, notifier Notifier, validator *security.ValidationService) *PacketService {
	return &PacketService{
		db:        db,
		logger:    logger,
		notifier:  notifier,
		validator: validator,
		now:       time.Now,
	}
}

// GetPacket returns the serialized view of one packet: window, open flag,
// the caller's signed-state, required and received counts, and the three
// signature collections reduced to their public fields.
func (s *PacketService) GetPacket(ctx context.Context, packetID int, uid string, isMember bool) (*models.PacketView, error) {
	detail, err := repository.NewPacketRepository(s.db).FindDetail(ctx, packetID)
	if err != nil {
		return nil, err
	}

	view := models.NewPacketView(detail, detail.SignaturesRequired(), detail.SignaturesReceived(), s.now())
	view.DidSign = detail.DidSign(uid, isMember)
	return &view, nil
}

// DidSign reports whether the given account has signed the packet.
func (s *PacketService) DidSign(ctx context.Context, packetID int, uid string, isMember bool) (bool, error) {
	detail, err := repository.NewPacketRepository(s.db).FindDetail(ctx, packetID)
	if err != nil {
		return false, err
	}
	return detail.DidSign(uid, isMember), nil
}

// GetFreshman returns the serialized view of one freshman with their packets,
// newest first, each carrying its open flag.
func (s *PacketService) GetFreshman(ctx context.Context, username string) (*models.FreshmanView, error) {
	freshman, err := repository.NewFreshmanRepository(s.db).FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	packets, err := repository.NewPacketRepository(s.db).ListByFreshman(ctx, username)
	if err != nil {
		return nil, err
	}

	view := models.NewFreshmanView(freshman, packets, s.now())
	return &view, nil
}

// SearchFreshmen performs a case-insensitive name search. The term must be
// letters only; anything else is rejected before touching the database.
func (s *PacketService) SearchFreshmen(ctx context.Context, term string) ([]models.FreshmanView, error) {
	if err := s.validator.ValidateSearchTerm(term); err != nil {
		return nil, apierr.ErrBadSearchTerm
	}

	matches, err := repository.NewFreshmanRepository(s.db).SearchByName(ctx, term)
	if err != nil {
		return nil, err
	}

	packetRepo := repository.NewPacketRepository(s.db)
	now := s.now()

	views := make([]models.FreshmanView, 0, len(matches))
	for i := range matches {
		packets, err := packetRepo.ListByFreshman(ctx, matches[i].RITUsername)
		if err != nil {
			return nil, err
		}
		views = append(views, models.NewFreshmanView(&matches[i], packets, now))
	}

	return views, nil
}

// ListOpenPackets returns all packets whose window contains the current time.
func (s *PacketService) ListOpenPackets(ctx context.Context) ([]models.Packet, error) {
	return repository.NewPacketRepository(s.db).ListOpen(ctx, s.now())
}

// RecordSignature records a signature on a packet from the given account.
// It is the single mutating entry point and runs as one transaction:
//
//  1. Lock and load the packet with its signature collections.
//  2. Reject if the packet is not open.
//  3. Apply at most one row mutation per the signing policy: flip the
//     signer's upperclassman or freshman slot, or create a misc row.
//  4. Commit, then fire the completion notification if this signature drove
//     the packet from incomplete to complete.
//
// The completeness value from before the mutation is compared against the
// recomputed value after it, inside the same transaction's view of the data,
// so concurrent signs cannot double-fire or miss the notification.
func (s *PacketService) RecordSignature(ctx context.Context, packetID int, uid string, isMember bool) (*models.SignResult, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	// Rollback is a no-op once the transaction has committed.
	defer tx.Rollback(ctx)

	detail, err := repository.NewPacketRepository(tx).FindDetailForUpdate(ctx, packetID)
	if err != nil {
		return nil, err
	}

	if !detail.IsOpen(s.now()) {
		return nil, apierr.ErrPacketClosed
	}

	wasComplete := detail.IsComplete()

	result, err := s.applySignature(ctx, repository.NewSignatureRepository(tx), detail, uid, isMember)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit signature: %w", err)
	}

	// Notification fires only after the commit has made the signature
	// durable, and only on the false->true completion transition.
	if !wasComplete && detail.IsComplete() {
		s.logger.SecurityEvent(security.EventPacketComplete, uid, "", "",
			map[string]interface{}{"packet_id": detail.ID, "freshman": detail.FreshmanUsername})

		if err := s.notifier.Notify(ctx, detail.FreshmanName); err != nil {
			s.logger.Error(fmt.Sprintf("failed to send completion notification for packet %d", detail.ID), err)
		}
	}

	return result, nil
}

// applySignature decides the outcome for the signer and applies at most one
// row mutation, mirroring the change into the in-memory detail so the caller
// can recompute completeness without re-reading.
func (s *PacketService) applySignature(ctx context.Context, sigs *repository.SignatureRepository, detail *models.PacketDetail, uid string, isMember bool) (*models.SignResult, error) {
	if isMember {
		// Upperclassman slot first: the row existing means the member is an
		// eboard member or upperclassman for this packet.
		for i := range detail.UpperSignatures {
			sig := &detail.UpperSignatures[i]
			if sig.Member != uid {
				continue
			}

			if sig.Signed {
				s.logger.SecurityEvent(security.EventRepeatSignature, uid, "", "",
					map[string]interface{}{"packet_id": detail.ID, "kind": "upper"})
				return nil, apierr.ErrAlreadySigned
			}

			flipped, err := sigs.SignUpper(ctx, detail.ID, uid)
			if err != nil {
				return nil, err
			}
			if !flipped {
				// A concurrent transaction signed this slot first.
				return nil, apierr.ErrAlreadySigned
			}

			sig.Signed = true
			sig.Updated = s.now()
			s.logger.Info(fmt.Sprintf("member %s signed packet %d as an upperclassman", uid, detail.ID))
			return &models.SignResult{Message: "Added upperclassman signature"}, nil
		}

		// No slot, so the member signs as misc. An existing row means a
		// repeat signature; existence alone is signed.
		for _, sig := range detail.MiscSignatures {
			if sig.Member == uid {
				s.logger.SecurityEvent(security.EventRepeatSignature, uid, "", "",
					map[string]interface{}{"packet_id": detail.ID, "kind": "misc"})
				return nil, apierr.ErrAlreadySigned
			}
		}

		created, err := sigs.CreateMisc(ctx, detail.ID, uid)
		if err != nil {
			return nil, err
		}
		if !created {
			return nil, apierr.ErrAlreadySigned
		}

		detail.MiscSignatures = append(detail.MiscSignatures, models.MiscSignature{
			PacketID: detail.ID,
			Member:   uid,
			Updated:  s.now(),
		})
		s.logger.Info(fmt.Sprintf("member %s signed packet %d as a misc", uid, detail.ID))
		return &models.SignResult{Message: "Added misc member signature"}, nil
	}

	// Freshman signer: only on-floor freshmen have pre-populated slots.
	for i := range detail.FreshSignatures {
		sig := &detail.FreshSignatures[i]
		if sig.FreshmanUsername != uid {
			continue
		}

		if sig.Signed {
			s.logger.SecurityEvent(security.EventRepeatSignature, uid, "", "",
				map[string]interface{}{"packet_id": detail.ID, "kind": "fresh"})
			return nil, apierr.ErrAlreadySigned
		}

		flipped, err := sigs.SignFresh(ctx, detail.ID, uid)
		if err != nil {
			return nil, err
		}
		if !flipped {
			return nil, apierr.ErrAlreadySigned
		}

		sig.Signed = true
		sig.Updated = s.now()
		s.logger.Info(fmt.Sprintf("freshman %s signed packet %d", uid, detail.ID))
		return &models.SignResult{Message: "Added freshman signature"}, nil
	}

	s.logger.Warn(fmt.Sprintf("off-floor freshman %s tried to sign packet %d", uid, detail.ID))
	return nil, apierr.ErrIneligibleSigner
}
