// Package middleware provides HTTP middleware for the packet tracker:
// session-based authentication and per-endpoint rate limiting.
package middleware

import (
	"github.com/JoelEager/packet/internal/security"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// PacketAuth ensures the caller has an authenticated session and copies the
// signer identity into the request context. Downstream handlers and the
// service layer trust these locals verbatim.
//
// Context Locals Set:
//   - uid: the authenticated username (string)
//   - is_member: true for member accounts, false for freshmen (bool)
//   - display_name: the account's display name (string)
func PacketAuth(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return unauthorized(c)
		}

		uid := sess.Get("uid")
		if uid == nil {
			return unauthorized(c)
		}

		isMember, _ := sess.Get("is_member").(bool)

		c.Locals("uid", uid)
		c.Locals("is_member", isMember)
		c.Locals("display_name", sess.Get("display_name"))

		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error":       "unauthorized",
		"description": "You must be logged in to use the API",
	})
}

// RateLimit rejects requests once the caller (by session uid, falling back
// to client IP) exhausts the limiter's bucket for the named endpoint.
func RateLimit(limiter *security.RateLimiter, endpoint string, logger *security.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier := c.IP()
		if uid, ok := c.Locals("uid").(string); ok && uid != "" {
			identifier = uid
		}

		if !limiter.Allow(identifier) {
			logger.SecurityEvent(security.EventRateLimitExceeded, identifier, c.IP(), c.Get("User-Agent"),
				map[string]interface{}{"endpoint": endpoint})

			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "rate_limited",
				"description": "Too many requests, slow down",
			})
		}

		return c.Next()
	}
}
