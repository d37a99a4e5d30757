// Package models defines data structures for the packet sign-off tracker.
// This file contains the fixed-shape view records returned by the JSON API.
package models

import "time"

// UpperSignatureView is the public shape of an UpperSignature.
type UpperSignatureView struct {
	Member string `json:"member"`
	Signed bool   `json:"signed"`
	Eboard bool   `json:"eboard"`
}

// FreshSignatureView is the public shape of a FreshSignature.
type FreshSignatureView struct {
	FreshmanUsername string `json:"freshman_username"`
	Signed           bool   `json:"signed"`
}

// MiscSignatureView is the public shape of a MiscSignature.
// Existence implies signed, so only the signer is exposed.
type MiscSignatureView struct {
	Member string `json:"member"`
}

// PacketView is the serialized form of a packet with its signature state.
type PacketView struct {
	ID                 int                  `json:"id"`
	FreshmanName       string               `json:"freshman_name"`
	FreshmanUsername   string               `json:"freshman_username"`
	Start              time.Time            `json:"start"`
	End                time.Time            `json:"end"`
	Open               bool                 `json:"open"`
	DidSign            bool                 `json:"did_sign"` // Whether the requesting account has signed
	SignaturesRequired SigCounts            `json:"signatures_required"`
	SignaturesReceived SigCounts            `json:"signatures_received"`
	UpperSignatures    []UpperSignatureView `json:"upper_signatures"`
	FreshSignatures    []FreshSignatureView `json:"fresh_signatures"`
	MiscSignatures     []MiscSignatureView  `json:"misc_signatures"`
}

// PacketRef is a packet reference inside a freshman view: just the id and
// whether the packet is currently open.
type PacketRef struct {
	ID   int  `json:"id"`
	Open bool `json:"open"`
}

// FreshmanView is the serialized form of a freshman with their packets,
// ordered newest packet first.
type FreshmanView struct {
	RITUsername string      `json:"rit_username"`
	Name        string      `json:"name"`
	OnFloor     bool        `json:"onfloor"`
	Packets     []PacketRef `json:"packets"`
}

// MemberView is the directory lookup result for a member username.
type MemberView struct {
	Username string `json:"username"`
	Name     string `json:"name"`
}

// SignResult reports the outcome of a successful signature.
type SignResult struct {
	Message string `json:"message"`
}

// NewPacketView builds a PacketView from a loaded detail at the given instant.
// Collections are reduced to their public fields; slices are always non-nil so
// the JSON encodes empty arrays rather than null.
func NewPacketView(detail *PacketDetail, required, received SigCounts, now time.Time) PacketView {
	uppers := make([]UpperSignatureView, 0, len(detail.UpperSignatures))
	for _, sig := range detail.UpperSignatures {
		uppers = append(uppers, UpperSignatureView{Member: sig.Member, Signed: sig.Signed, Eboard: sig.Eboard})
	}

	fresh := make([]FreshSignatureView, 0, len(detail.FreshSignatures))
	for _, sig := range detail.FreshSignatures {
		fresh = append(fresh, FreshSignatureView{FreshmanUsername: sig.FreshmanUsername, Signed: sig.Signed})
	}

	misc := make([]MiscSignatureView, 0, len(detail.MiscSignatures))
	for _, sig := range detail.MiscSignatures {
		misc = append(misc, MiscSignatureView{Member: sig.Member})
	}

	return PacketView{
		ID:                 detail.ID,
		FreshmanName:       detail.FreshmanName,
		FreshmanUsername:   detail.FreshmanUsername,
		Start:              detail.Start,
		End:                detail.End,
		Open:               detail.IsOpen(now),
		SignaturesRequired: required,
		SignaturesReceived: received,
		UpperSignatures:    uppers,
		FreshSignatures:    fresh,
		MiscSignatures:     misc,
	}
}

// NewFreshmanView builds a FreshmanView from a freshman and their packets.
// Packets are expected newest first, matching the repository ordering.
func NewFreshmanView(freshman *Freshman, packets []Packet, now time.Time) FreshmanView {
	refs := make([]PacketRef, 0, len(packets))
	for _, p := range packets {
		refs = append(refs, PacketRef{ID: p.ID, Open: p.IsOpen(now)})
	}

	return FreshmanView{
		RITUsername: freshman.RITUsername,
		Name:        freshman.Name,
		OnFloor:     freshman.OnFloor,
		Packets:     refs,
	}
}
