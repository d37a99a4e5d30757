// Package models defines the domain entities and view types for the packet
// sign-off tracker. It includes database models mapped to PostgreSQL tables,
// the derived SigCounts value, and fixed-shape view records for JSON responses.
package models

import "time"

// RequiredMiscSignatures is the number of honorary member, advisor, and alumni
// signatures a packet needs. The misc requirement is a flat cap, not a roster:
// any number of misc rows may exist but only this many count toward 100%.
const RequiredMiscSignatures = 10

// ============================================================================
// Domain Models (Database Entities)
// ============================================================================

// Freshman represents a new member going through the intro process.
// A freshman can own multiple packets if they repeat the process.
//
// Database Table: freshman
type Freshman struct {
	RITUsername string `db:"rit_username"` // Primary key
	Name        string `db:"name"`         // Display name
	OnFloor     bool   `db:"onfloor"`      // Eligible to sign packets in person
}

// Packet represents a time-boxed signature campaign for one freshman.
// The packet is open strictly between Start and End.
//
// Database Table: packet
// Invariant: Start < End
type Packet struct {
	ID               int       `db:"id"`                // Primary key, auto-increment
	FreshmanUsername string    `db:"freshman_username"` // Foreign key to freshman.rit_username
	Start            time.Time `db:"start"`             // Window open timestamp
	End              time.Time `db:"end"`               // Window close timestamp
}

// IsOpen reports whether the packet can be signed at the given instant.
// Both bounds are strict: a packet is closed at exactly Start and exactly End.
func (p *Packet) IsOpen(now time.Time) bool {
	return p.Start.Before(now) && now.Before(p.End)
}

// UpperSignature is a pre-populated signature slot for an eboard member or
// upperclassman. The row exists because the signer is eligible; Signed records
// whether they actually signed.
//
// Database Table: signature_upper
// Primary Key: (packet_id, member)
type UpperSignature struct {
	PacketID int       `db:"packet_id"`
	Member   string    `db:"member"` // Signer's username
	Signed   bool      `db:"signed"`
	Eboard   bool      `db:"eboard"` // Counted separately from general upperclassmen
	Updated  time.Time `db:"updated"`
}

// FreshSignature is a pre-populated signature slot for an on-floor freshman.
// Off-floor freshmen have no row and therefore cannot sign.
//
// Database Table: signature_fresh
// Primary Key: (packet_id, freshman_username)
type FreshSignature struct {
	PacketID         int       `db:"packet_id"`
	FreshmanUsername string    `db:"freshman_username"`
	Signed           bool      `db:"signed"`
	Updated          time.Time `db:"updated"`
}

// MiscSignature records a signature from a member outside the eboard,
// upperclassman, and freshman categories (alumni, honorary members, advisors).
// Rows are created only at the moment of signing; existence alone means signed.
//
// Database Table: signature_misc
// Primary Key: (packet_id, member)
type MiscSignature struct {
	PacketID int       `db:"packet_id"`
	Member   string    `db:"member"`
	Updated  time.Time `db:"updated"`
}

// PacketDetail is a packet with its freshman and all three signature
// collections loaded. Signature math operates on this fully loaded form so
// required/received calculations never go back to the database.
type PacketDetail struct {
	Packet
	FreshmanName    string
	UpperSignatures []UpperSignature
	FreshSignatures []FreshSignature
	MiscSignatures  []MiscSignature
}

// ============================================================================
// Derived Values
// ============================================================================

// SigCounts breaks out signature counts by type. It is a pure derived value,
// never persisted. MiscCapped and the totals apply the misc cap so a packet
// with more than RequiredMiscSignatures misc rows never overshoots 100%.
type SigCounts struct {
	Eboard      int `json:"eboard"`
	Upper       int `json:"upper"` // Upperclassmen excluding eboard
	Fresh       int `json:"fresh"`
	Misc        int `json:"misc"`
	MiscCapped  int `json:"misc_capped"`
	MemberTotal int `json:"member_total"` // eboard + upper + misc_capped
	Total       int `json:"total"`        // member_total + fresh
}

// NewSigCounts builds a SigCounts from the four base counts, applying the
// misc cap and computing both totals.
func NewSigCounts(eboard, upper, fresh, misc int) SigCounts {
	capped := misc
	if capped > RequiredMiscSignatures {
		capped = RequiredMiscSignatures
	}

	return SigCounts{
		Eboard:      eboard,
		Upper:       upper,
		Fresh:       fresh,
		Misc:        misc,
		MiscCapped:  capped,
		MemberTotal: eboard + upper + capped,
		Total:       eboard + upper + capped + fresh,
	}
}

// ============================================================================
// Accounts (session login)
// ============================================================================

// Account is a login identity for the web UI/API. Member accounts sign in the
// member direction; freshman accounts map onto freshman.rit_username.
//
// Database Table: accounts
// Security Note: PasswordHash must never appear in API responses or logs.
type Account struct {
	Username     string    `db:"username"` // Primary key
	Name         string    `db:"name"`     // Display name
	Member       bool      `db:"member"`   // True for CSH members, false for freshmen
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}
