// Package handlers implements the HTTP request handlers for the packet
// tracker. This file contains session login and logout.
package handlers

import (
	"github.com/JoelEager/packet/internal/security"
	"github.com/JoelEager/packet/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// AuthHandler manages session login and logout. Successful login stores the
// signer identity (uid + member flag) in the session; everything downstream
// reads it from there.
type AuthHandler struct {
	store       *session.Store
	authService *services.AuthService
	lockout     *security.AccountLockout
	logger      *security.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(store *session.Store, authService *services.AuthService, lockout *security.AccountLockout, logger *security.Logger) *AuthHandler {
	return &AuthHandler{
		store:       store,
		authService: authService,
		lockout:     lockout,
		logger:      logger,
	}
}

// loginRequest is the POST /login body.
type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Login handles POST /login. Credential failures and unknown usernames get
// the same response so callers can't probe which accounts exist.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil || req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":       "bad_request",
			"description": "Username and password are required",
		})
	}

	if h.lockout.IsLocked(req.Username) {
		h.logger.SecurityEvent(security.EventAccountLocked, req.Username, c.IP(), c.Get("User-Agent"), nil)
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":       "account_locked",
			"description": "Account is locked due to too many failed attempts",
		})
	}

	account, err := h.authService.Authenticate(c.Context(), req.Username, req.Password)
	if err != nil {
		locked := h.lockout.RecordFailedAttempt(req.Username)
		h.logger.SecurityEvent(security.EventLoginFailure, req.Username, c.IP(), c.Get("User-Agent"),
			map[string]interface{}{"locked": locked})

		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":       "bad_credentials",
			"description": "Invalid username or password",
		})
	}

	h.lockout.ResetAttempts(account.Username)

	sess, err := h.store.Get(c)
	if err != nil {
		h.logger.Error("failed to open session during login", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	sess.Set("uid", account.Username)
	sess.Set("is_member", account.Member)
	sess.Set("display_name", account.Name)
	if err := sess.Save(); err != nil {
		h.logger.Error("failed to save session during login", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	h.logger.SecurityEvent(security.EventLoginSuccess, account.Username, c.IP(), c.Get("User-Agent"), nil)

	return c.JSON(fiber.Map{
		"uid":       account.Username,
		"is_member": account.Member,
		"name":      account.Name,
	})
}

// Logout handles GET /logout, destroying the session.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err == nil {
		_ = sess.Destroy()
	}

	return c.JSON(fiber.Map{"message": "Logged out"})
}
