// Package security provides rate limiting and brute force protection.
package security

import (
	"sync"
	"time"
)

// RateLimiter implements a token bucket per identifier (IP or username).
// Thread-safe; a background goroutine evicts idle buckets.
type RateLimiter struct {
	limiters map[string]*bucketState
	mu       sync.RWMutex

	maxTokens  int           // Maximum tokens in a bucket
	refillRate time.Duration // Time between token refills

	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
}

// bucketState tracks the token bucket for a single identifier.
type bucketState struct {
	tokens     int
	lastRefill time.Time
	mu         sync.Mutex
}

// NewRateLimiter creates a rate limiter allowing maxTokens burst requests
// with one token refilled every refillRate.
//
// Example:
//
//	// Allow 20 sign attempts per minute
//	limiter := NewRateLimiter(20, 3*time.Second)
func NewRateLimiter(maxTokens int, refillRate time.Duration) *RateLimiter {
	rl := &RateLimiter{
		limiters:    make(map[string]*bucketState),
		maxTokens:   maxTokens,
		refillRate:  refillRate,
		stopCleanup: make(chan struct{}),
	}

	rl.cleanupTicker = time.NewTicker(10 * time.Minute)
	go rl.cleanup()

	return rl
}

// Allow reports whether a request from the identifier should be allowed,
// consuming a token if so.
func (rl *RateLimiter) Allow(identifier string) bool {
	rl.mu.Lock()
	bucket, exists := rl.limiters[identifier]
	if !exists {
		rl.limiters[identifier] = &bucketState{
			tokens:     rl.maxTokens - 1, // This request consumes one
			lastRefill: time.Now(),
		}
		rl.mu.Unlock()
		return true
	}
	rl.mu.Unlock()

	bucket.mu.Lock()
	defer bucket.mu.Unlock()

	tokensToAdd := int(time.Since(bucket.lastRefill) / rl.refillRate)
	if tokensToAdd > 0 {
		bucket.tokens += tokensToAdd
		if bucket.tokens > rl.maxTokens {
			bucket.tokens = rl.maxTokens
		}
		bucket.lastRefill = time.Now()
	}

	if bucket.tokens > 0 {
		bucket.tokens--
		return true
	}

	return false
}

// Reset removes the rate limit state for an identifier.
func (rl *RateLimiter) Reset(identifier string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.limiters, identifier)
}

// cleanup periodically drops buckets inactive for more than an hour.
func (rl *RateLimiter) cleanup() {
	for {
		select {
		case <-rl.cleanupTicker.C:
			rl.mu.Lock()
			now := time.Now()
			for id, bucket := range rl.limiters {
				bucket.mu.Lock()
				if now.Sub(bucket.lastRefill) > time.Hour {
					delete(rl.limiters, id)
				}
				bucket.mu.Unlock()
			}
			rl.mu.Unlock()
		case <-rl.stopCleanup:
			return
		}
	}
}

// Stop stops the cleanup goroutine.
func (rl *RateLimiter) Stop() {
	rl.cleanupTicker.Stop()
	close(rl.stopCleanup)
}

// AccountLockout tracks failed login attempts and locks accounts that exceed
// the threshold.
type AccountLockout struct {
	lockouts map[string]*lockoutState
	mu       sync.RWMutex

	threshold int           // Failed attempts before lockout
	duration  time.Duration // How long the account stays locked
}

// lockoutState tracks failed attempts for one account.
type lockoutState struct {
	failedAttempts int
	lockedUntil    time.Time
	lastAttempt    time.Time
	mu             sync.Mutex
}

// NewAccountLockout creates an account lockout tracker.
func NewAccountLockout(threshold int, duration time.Duration) *AccountLockout {
	return &AccountLockout{
		lockouts:  make(map[string]*lockoutState),
		threshold: threshold,
		duration:  duration,
	}
}

// RecordFailedAttempt records a failed login. Returns true if this attempt
// pushed the account over the threshold and locked it.
func (al *AccountLockout) RecordFailedAttempt(identifier string) bool {
	al.mu.Lock()
	state, exists := al.lockouts[identifier]
	if !exists {
		al.lockouts[identifier] = &lockoutState{
			failedAttempts: 1,
			lastAttempt:    time.Now(),
		}
		al.mu.Unlock()
		return false
	}
	al.mu.Unlock()

	state.mu.Lock()
	defer state.mu.Unlock()

	// Stale failure streaks reset after 30 minutes of quiet.
	if time.Since(state.lastAttempt) > 30*time.Minute {
		state.failedAttempts = 1
		state.lastAttempt = time.Now()
		return false
	}

	state.failedAttempts++
	state.lastAttempt = time.Now()

	if state.failedAttempts >= al.threshold {
		state.lockedUntil = time.Now().Add(al.duration)
		return true
	}

	return false
}

// IsLocked reports whether the account is currently locked.
func (al *AccountLockout) IsLocked(identifier string) bool {
	al.mu.RLock()
	state, exists := al.lockouts[identifier]
	al.mu.RUnlock()

	if !exists {
		return false
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	// Only an expired lockout clears the counter. A zero lockedUntil means
	// the account has failures but was never locked; resetting there would
	// let callers that check IsLocked before every attempt wipe the streak.
	if state.lockedUntil.IsZero() {
		return false
	}

	if time.Now().After(state.lockedUntil) {
		state.failedAttempts = 0
		state.lockedUntil = time.Time{}
		return false
	}

	return true
}

// ResetAttempts clears the failure counter. Call on successful login.
func (al *AccountLockout) ResetAttempts(identifier string) {
	al.mu.Lock()
	defer al.mu.Unlock()
	delete(al.lockouts, identifier)
}

// GetLockoutTimeRemaining returns the time left on a lockout, or 0.
func (al *AccountLockout) GetLockoutTimeRemaining(identifier string) time.Duration {
	al.mu.RLock()
	state, exists := al.lockouts[identifier]
	al.mu.RUnlock()

	if !exists {
		return 0
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	if state.lockedUntil.IsZero() {
		return 0
	}

	remaining := time.Until(state.lockedUntil)
	if remaining < 0 {
		return 0
	}

	return remaining
}
