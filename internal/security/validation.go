// Package security provides input validation for the packet tracker.
// All validation methods return descriptive errors safe to show to users.
package security

import (
	"fmt"
	"regexp"
	"unicode"
	"unicode/utf8"
)

// usernamePattern matches the account and RIT username charset.
var usernamePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// ValidationService provides centralized input validation.
type ValidationService struct {
	config *SecurityConfig
}

// NewValidationService creates a validation service with the given limits.
func NewValidationService(config *SecurityConfig) *ValidationService {
	return &ValidationService{
		config: config,
	}
}

// ValidateSearchTerm validates a freshman name search term. Only letters are
// allowed; digits, spaces, and punctuation are rejected so the term can never
// smuggle pattern metacharacters into the ILIKE query.
func (v *ValidationService) ValidateSearchTerm(term string) error {
	if term == "" {
		return fmt.Errorf("search term is required")
	}

	if utf8.RuneCountInString(term) > v.config.MaxSearchTermLength {
		return fmt.Errorf("search term must be %d characters or less", v.config.MaxSearchTermLength)
	}

	for _, r := range term {
		if !unicode.IsLetter(r) {
			return fmt.Errorf("search term can only contain letters")
		}
	}

	return nil
}

// ValidateUsername validates an account or RIT username.
func (v *ValidationService) ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}

	if len(username) > v.config.MaxUsernameLength {
		return fmt.Errorf("username must be %d characters or less", v.config.MaxUsernameLength)
	}

	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("username can only contain lowercase letters, numbers, hyphens, and underscores")
	}

	return nil
}

// ValidatePassword validates a password meets the minimum requirements for
// seeded accounts.
func (v *ValidationService) ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	if len(password) > 128 {
		return fmt.Errorf("password must be less than 128 characters")
	}

	return nil
}
