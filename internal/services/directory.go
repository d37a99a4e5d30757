// Package services provides the business logic layer for the packet tracker.
// This file implements the member directory lookup used for presentation.
package services

import (
	"context"
	"sync"

	"github.com/JoelEager/packet/internal/database"
	"github.com/JoelEager/packet/internal/repository"
)

// Directory maps a username to a display name. It is used only for
// presentation, never for authorization or signature decisions.
type Directory interface {
	Lookup(ctx context.Context, username string) (string, error)
}

// AccountDirectory resolves display names from the accounts table.
type AccountDirectory struct {
	accountRepo *repository.AccountRepository
}

// NewAccountDirectory creates an AccountDirectory over the given handle.
func NewAccountDirectory(db database.Querier) *AccountDirectory {
	return &AccountDirectory{accountRepo: repository.NewAccountRepository(db)}
}

// Lookup returns the display name for a username, or apierr.ErrBadMember.
func (d *AccountDirectory) Lookup(ctx context.Context, username string) (string, error) {
	return d.accountRepo.LookupName(ctx, username)
}

// CachedDirectory memoizes successful lookups from an inner Directory.
// Display names change rarely enough that entries live for the process
// lifetime. Failed lookups are not cached so a freshly added account
// resolves on the next request.
type CachedDirectory struct {
	inner Directory

	mu    sync.RWMutex
	names map[string]string
}

// NewCachedDirectory wraps a Directory with a memoizing cache.
func NewCachedDirectory(inner Directory) *CachedDirectory {
	return &CachedDirectory{
		inner: inner,
		names: make(map[string]string),
	}
}

// Lookup returns the cached display name, falling back to the inner
// directory on a miss.
func (d *CachedDirectory) Lookup(ctx context.Context, username string) (string, error) {
	d.mu.RLock()
	name, ok := d.names[username]
	d.mu.RUnlock()
	if ok {
		return name, nil
	}

	name, err := d.inner.Lookup(ctx, username)
	if err != nil {
		return "", err
	}

	d.mu.Lock()
	d.names[username] = name
	d.mu.Unlock()

	return name, nil
}
