// Package apierr defines the error taxonomy shared by the service layer and
// the HTTP handlers. Every failure the caller can correct is one of these
// typed values: a machine-friendly tag, a human description, and the HTTP
// status the handler layer should map it to.
package apierr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Error is a caller-correctable failure. It is returned synchronously from
// service operations and serialized by the handlers as
// {"error": <tag>, "description": <text>}.
type Error struct {
	Tag         string `json:"error"`       // Machine-friendly name
	Description string `json:"description"` // Human-friendly description
	Status      int    `json:"-"`           // HTTP status code
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Tag + ": " + e.Description
}

// Predefined errors covering the full taxonomy. Tags match the original wire
// format so existing clients keep working.
var (
	// ErrBadPacketID is returned for unknown or malformed packet ids.
	ErrBadPacketID = &Error{
		Tag:         "bad_id",
		Description: "Invalid packet id",
		Status:      fiber.StatusNotFound,
	}

	// ErrBadUsername is returned for unknown freshman usernames.
	ErrBadUsername = &Error{
		Tag:         "bad_username",
		Description: "Invalid freshman username",
		Status:      fiber.StatusNotFound,
	}

	// ErrBadMember is returned for directory lookups of unknown members.
	ErrBadMember = &Error{
		Tag:         "bad_member",
		Description: "Invalid member username",
		Status:      fiber.StatusNotFound,
	}

	// ErrBadSearchTerm is returned when a freshman search contains anything
	// other than letters.
	ErrBadSearchTerm = &Error{
		Tag:         "bad_search_term",
		Description: "Only letters are allowed in the search text",
		Status:      fiber.StatusBadRequest,
	}

	// ErrPacketClosed is returned when signing outside the open window.
	ErrPacketClosed = &Error{
		Tag:         "packet_closed",
		Description: "That packet is closed so it can't be signed",
		Status:      fiber.StatusBadRequest,
	}

	// ErrAlreadySigned is returned when the signer already has a signed row
	// or an existing misc row on the packet.
	ErrAlreadySigned = &Error{
		Tag:         "already_signed",
		Description: "You've already signed this packet",
		Status:      fiber.StatusBadRequest,
	}

	// ErrIneligibleSigner is returned when an off-floor freshman with no
	// pre-populated signature row attempts to sign.
	ErrIneligibleSigner = &Error{
		Tag:         "onfloor_freshman",
		Description: "Off-floor freshmen can't sign packets",
		Status:      fiber.StatusBadRequest,
	}
)

// As unwraps err into an *Error if it is one, directly or wrapped.
func As(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
