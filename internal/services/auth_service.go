// Package services provides the business logic layer for the packet tracker.
// This file implements authentication: credential verification against the
// accounts table using bcrypt.
package services

import (
	"context"

	"github.com/JoelEager/packet/internal/database"
	"github.com/JoelEager/packet/internal/models"
	"github.com/JoelEager/packet/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// AuthService verifies login credentials. It sits between the login handler
// and the account repository; the rest of the application only ever sees the
// authenticated identity (username + member flag) through the session.
type AuthService struct {
	accountRepo *repository.AccountRepository
	bcryptCost  int
}

// NewAuthService creates an AuthService over the given database handle.
func NewAuthService(db database.Querier, bcryptCost int) *AuthService {
	return &AuthService{
		accountRepo: repository.NewAccountRepository(db),
		bcryptCost:  bcryptCost,
	}
}

// Authenticate verifies credentials and returns the account on success.
// The lookup error and the bcrypt mismatch error are returned as-is; the
// login handler collapses both into the same response so callers can't
// probe which usernames exist.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.Account, error) {
	account, err := s.accountRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	// Constant-time comparison; never compare hashes with ==.
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, err
	}

	return account, nil
}

// HashPassword generates a bcrypt hash for seeding accounts.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
