// Package models defines data structures for the packet sign-off tracker.
// This file contains the signature arithmetic derived from a loaded packet.
package models

// SignaturesRequired computes how many signatures of each kind this packet
// needs for 100%: eboard and upperclassman counts come from the pre-populated
// slots, fresh from the eligible on-floor freshmen, and misc is always exactly
// RequiredMiscSignatures regardless of how many misc rows exist.
func (d *PacketDetail) SignaturesRequired() SigCounts {
	eboard := 0
	for _, sig := range d.UpperSignatures {
		if sig.Eboard {
			eboard++
		}
	}
	upper := len(d.UpperSignatures) - eboard

	return NewSigCounts(eboard, upper, len(d.FreshSignatures), RequiredMiscSignatures)
}

// SignaturesReceived computes how many signatures of each kind this packet
// currently has. Misc rows count by existence; the shared capping rule keeps
// excess misc signatures from pushing the total past the requirement.
func (d *PacketDetail) SignaturesReceived() SigCounts {
	var eboard, upper, fresh int
	for _, sig := range d.UpperSignatures {
		switch {
		case sig.Eboard && sig.Signed:
			eboard++
		case !sig.Eboard && sig.Signed:
			upper++
		}
	}
	for _, sig := range d.FreshSignatures {
		if sig.Signed {
			fresh++
		}
	}

	return NewSigCounts(eboard, upper, fresh, len(d.MiscSignatures))
}

// IsComplete reports whether this packet has reached 100%.
//
// The comparison is deliberately on the two computed totals, not a per-row
// all-signed check. Required totals sum capacities while received totals sum
// actual signed counts, and the two coincide exactly when every pre-populated
// row is signed and misc reaches the cap. Downstream code and the completion
// notification depend on this totals equality, so keep the formula as is.
func (d *PacketDetail) IsComplete() bool {
	return d.SignaturesRequired().Total == d.SignaturesReceived().Total
}

// DidSign reports whether the given account has signed this packet. Members
// are looked up in the upperclassman slots first, then the misc rows (where
// existence implies signed); freshmen in the freshman slots. Accounts with no
// matching row have not signed.
func (d *PacketDetail) DidSign(uid string, isMember bool) bool {
	if isMember {
		for _, sig := range d.UpperSignatures {
			if sig.Member == uid {
				return sig.Signed
			}
		}
		for _, sig := range d.MiscSignatures {
			if sig.Member == uid {
				return true
			}
		}
		return false
	}

	for _, sig := range d.FreshSignatures {
		if sig.FreshmanUsername == uid {
			return sig.Signed
		}
	}
	return false
}
