// Package handlers implements the HTTP request handlers for the packet
// tracker's JSON API.
package handlers

import (
	"strconv"

	"github.com/JoelEager/packet/internal/apierr"
	"github.com/JoelEager/packet/internal/models"
	"github.com/JoelEager/packet/internal/security"
	"github.com/JoelEager/packet/internal/services"
	"github.com/gofiber/fiber/v2"
)

// APIHandler serves the packet and freshman endpoints. The signer identity
// comes from the session locals set by middleware.PacketAuth.
type APIHandler struct {
	packets   *services.PacketService
	directory services.Directory
	logger    *security.Logger
}

// NewAPIHandler creates an APIHandler with its service dependencies.
func NewAPIHandler(packets *services.PacketService, directory services.Directory, logger *security.Logger) *APIHandler {
	return &APIHandler{
		packets:   packets,
		directory: directory,
		logger:    logger,
	}
}

// GetPacket handles GET /api/packet/:packet_id/.
func (h *APIHandler) GetPacket(c *fiber.Ctx) error {
	packetID, err := parsePacketID(c)
	if err != nil {
		return h.renderError(c, err)
	}

	uid, _ := c.Locals("uid").(string)
	isMember, _ := c.Locals("is_member").(bool)

	view, err := h.packets.GetPacket(c.Context(), packetID, uid, isMember)
	if err != nil {
		return h.renderError(c, err)
	}

	return c.JSON(view)
}

// SignPacket handles POST /api/packet/:packet_id/sign/. The signature is
// recorded for the currently logged in account.
func (h *APIHandler) SignPacket(c *fiber.Ctx) error {
	packetID, err := parsePacketID(c)
	if err != nil {
		return h.renderError(c, err)
	}

	uid, _ := c.Locals("uid").(string)
	isMember, _ := c.Locals("is_member").(bool)

	result, err := h.packets.RecordSignature(c.Context(), packetID, uid, isMember)
	if err != nil {
		return h.renderError(c, err)
	}

	h.logger.SecurityEvent(security.EventPacketSigned, uid, c.IP(), c.Get("User-Agent"),
		map[string]interface{}{"packet_id": packetID})

	return c.JSON(result)
}

// GetFreshman handles GET /api/freshman/:freshman_username/.
func (h *APIHandler) GetFreshman(c *fiber.Ctx) error {
	view, err := h.packets.GetFreshman(c.Context(), c.Params("freshman_username"))
	if err != nil {
		return h.renderError(c, err)
	}

	return c.JSON(view)
}

// SearchFreshmen handles GET /api/freshmen/:search_term/. Case-insensitive
// name search; the term may contain only letters.
func (h *APIHandler) SearchFreshmen(c *fiber.Ctx) error {
	views, err := h.packets.SearchFreshmen(c.Context(), c.Params("search_term"))
	if err != nil {
		return h.renderError(c, err)
	}

	if views == nil {
		views = []models.FreshmanView{}
	}
	return c.JSON(views)
}

// ListOpenPackets handles GET /api/packets/open/.
func (h *APIHandler) ListOpenPackets(c *fiber.Ctx) error {
	packets, err := h.packets.ListOpenPackets(c.Context())
	if err != nil {
		return h.renderError(c, err)
	}

	refs := make([]models.PacketRef, 0, len(packets))
	for _, p := range packets {
		refs = append(refs, models.PacketRef{ID: p.ID, Open: true})
	}
	return c.JSON(refs)
}

// GetMember handles GET /api/member/:username/, the directory display-name
// lookup used by the UI.
func (h *APIHandler) GetMember(c *fiber.Ctx) error {
	username := c.Params("username")

	name, err := h.directory.Lookup(c.Context(), username)
	if err != nil {
		return h.renderError(c, err)
	}

	return c.JSON(models.MemberView{Username: username, Name: name})
}

// parsePacketID reads the :packet_id path parameter. Malformed ids are
// indistinguishable from unknown ones, matching how the storage layer treats
// a bad key.
func parsePacketID(c *fiber.Ctx) (int, error) {
	packetID, err := strconv.Atoi(c.Params("packet_id"))
	if err != nil || packetID < 1 {
		return 0, apierr.ErrBadPacketID
	}
	return packetID, nil
}

// renderError maps a service error to the wire format. Typed errors carry
// their own status and tag; anything else is an internal failure that gets
// logged and hidden behind a generic 500.
func (h *APIHandler) renderError(c *fiber.Ctx, err error) error {
	if apiErr, ok := apierr.As(err); ok {
		return c.Status(apiErr.Status).JSON(apiErr)
	}

	h.logger.Error("unhandled error serving "+c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":       "server_error",
		"description": "Something went wrong on our end",
	})
}
