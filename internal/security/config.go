// Package security provides centralized security configuration and utilities
// for the packet tracker: structured logging, rate limiting, account lockout,
// and input validation.
package security

import (
	"time"
)

// SecurityConfig holds all security-related tunables.
type SecurityConfig struct {
	// Secure password storage
	BcryptCost int // Cost factor for bcrypt hashing

	// Session management
	SessionTimeout    time.Duration // Session inactivity timeout
	SessionCookieName string        // Name of the session cookie
	SessionSecure     bool          // Require HTTPS for session cookies
	SessionHTTPOnly   bool          // Prevent JavaScript access to session cookies
	SessionSameSite   string        // CSRF protection via SameSite attribute

	// Brute force protection
	LoginRateLimit          int           // Max login attempts per minute per IP
	AccountLockoutThreshold int           // Failed attempts before account lockout
	AccountLockoutDuration  time.Duration // How long an account stays locked

	// Request rate limits
	SignRateLimit   int // Sign endpoint, per minute per user
	SearchRateLimit int // Freshman search endpoint, per minute per user

	// Input validation
	MaxSearchTermLength int // Maximum characters in a freshman name search
	MaxUsernameLength   int // Maximum characters in a username
}

// DefaultSecurityConfig returns the recommended defaults.
func DefaultSecurityConfig() *SecurityConfig {
	return &SecurityConfig{
		BcryptCost: 12,

		SessionTimeout:    8 * time.Hour,
		SessionCookieName: "packet_session",
		SessionSecure:     true,
		SessionHTTPOnly:   true,
		SessionSameSite:   "Lax",

		LoginRateLimit:          5,
		AccountLockoutThreshold: 10,
		AccountLockoutDuration:  30 * time.Minute,

		SignRateLimit:   20,
		SearchRateLimit: 30,

		MaxSearchTermLength: 64,
		MaxUsernameLength:   36,
	}
}
