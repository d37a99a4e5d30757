// Package security provides tests for rate limiting and brute force
// protection.
package security

import (
	"testing"
	"time"
)

// TestRateLimiter_Allow tests basic rate limiting functionality.
func TestRateLimiter_Allow(t *testing.T) {
	// Create limiter: 5 requests allowed, refill 1 per second
	limiter := NewRateLimiter(5, 1*time.Second)
	defer limiter.Stop()

	identifier := "oldtimer"

	// First 5 requests should be allowed
	for i := 0; i < 5; i++ {
		if !limiter.Allow(identifier) {
			t.Errorf("Request %d should be allowed", i+1)
		}
	}

	// 6th request should be denied (no tokens left)
	if limiter.Allow(identifier) {
		t.Error("6th request should be denied")
	}

	// Wait for token refill
	time.Sleep(1100 * time.Millisecond)

	// Should be allowed after refill
	if !limiter.Allow(identifier) {
		t.Error("Request after refill should be allowed")
	}
}

// TestRateLimiter_MultipleIdentifiers tests that buckets are independent.
func TestRateLimiter_MultipleIdentifiers(t *testing.T) {
	limiter := NewRateLimiter(3, 1*time.Second)
	defer limiter.Stop()

	uid1 := "oldtimer"
	uid2 := "alum"

	// Exhaust uid1's tokens
	for i := 0; i < 3; i++ {
		if !limiter.Allow(uid1) {
			t.Errorf("uid1 request %d should be allowed", i+1)
		}
	}

	// uid1 should now be rate limited
	if limiter.Allow(uid1) {
		t.Error("uid1 4th request should be denied")
	}

	// uid2 should still have tokens (separate bucket)
	for i := 0; i < 3; i++ {
		if !limiter.Allow(uid2) {
			t.Errorf("uid2 request %d should be allowed", i+1)
		}
	}
}

// TestRateLimiter_Reset tests resetting rate limit for an identifier.
func TestRateLimiter_Reset(t *testing.T) {
	limiter := NewRateLimiter(3, 1*time.Second)
	defer limiter.Stop()

	identifier := "oldtimer"

	// Exhaust tokens
	for i := 0; i < 3; i++ {
		limiter.Allow(identifier)
	}

	// Should be rate limited
	if limiter.Allow(identifier) {
		t.Error("Should be rate limited")
	}

	// Reset the identifier
	limiter.Reset(identifier)

	// Should be allowed after reset
	if !limiter.Allow(identifier) {
		t.Error("Should be allowed after reset")
	}
}

// TestAccountLockout_RecordFailedAttempt tests failed attempt tracking.
func TestAccountLockout_RecordFailedAttempt(t *testing.T) {
	lockout := NewAccountLockout(5, 10*time.Minute)

	identifier := "oldtimer"

	// First 4 attempts should not trigger lockout
	for i := 0; i < 4; i++ {
		locked := lockout.RecordFailedAttempt(identifier)
		if locked {
			t.Errorf("Attempt %d should not trigger lockout", i+1)
		}
	}

	// 5th attempt should trigger lockout
	locked := lockout.RecordFailedAttempt(identifier)
	if !locked {
		t.Error("5th attempt should trigger lockout")
	}
}

// TestAccountLockout_IsLocked tests lockout status checking.
func TestAccountLockout_IsLocked(t *testing.T) {
	lockout := NewAccountLockout(3, 2*time.Second)

	identifier := "oldtimer"

	// Not locked initially
	if lockout.IsLocked(identifier) {
		t.Error("Should not be locked initially")
	}

	// Record 3 failed attempts (triggers lockout)
	for i := 0; i < 3; i++ {
		lockout.RecordFailedAttempt(identifier)
	}

	// Should be locked now
	if !lockout.IsLocked(identifier) {
		t.Error("Should be locked after threshold")
	}

	// Wait for lockout to expire
	time.Sleep(2100 * time.Millisecond)

	// Should not be locked after expiration
	if lockout.IsLocked(identifier) {
		t.Error("Should not be locked after expiration")
	}
}

// TestAccountLockout_LoginInterleaving tests the sequence the login handler
// runs: check IsLocked before each attempt, record the failure after it. The
// streak must survive the IsLocked checks and lock at the threshold.
func TestAccountLockout_LoginInterleaving(t *testing.T) {
	lockout := NewAccountLockout(3, 10*time.Minute)

	identifier := "oldtimer"

	for attempt := 1; attempt <= 2; attempt++ {
		if lockout.IsLocked(identifier) {
			t.Fatalf("Should not be locked before attempt %d", attempt)
		}
		if locked := lockout.RecordFailedAttempt(identifier); locked {
			t.Fatalf("Attempt %d should not trigger lockout", attempt)
		}
	}

	// Third failed attempt reaches the threshold
	if lockout.IsLocked(identifier) {
		t.Fatal("Should not be locked before the threshold attempt")
	}
	if locked := lockout.RecordFailedAttempt(identifier); !locked {
		t.Fatal("3rd attempt should trigger lockout")
	}

	// Later login attempts are rejected up front
	if !lockout.IsLocked(identifier) {
		t.Error("Should be locked after the threshold")
	}
}

// TestAccountLockout_IsLockedPreservesStreak tests that checking the lockout
// status does not erase an unlocked account's failure count.
func TestAccountLockout_IsLockedPreservesStreak(t *testing.T) {
	lockout := NewAccountLockout(3, 10*time.Minute)

	identifier := "oldtimer"

	lockout.RecordFailedAttempt(identifier)
	lockout.RecordFailedAttempt(identifier)

	// Repeated status checks must not reset the counter
	for i := 0; i < 5; i++ {
		if lockout.IsLocked(identifier) {
			t.Fatal("Should not be locked below the threshold")
		}
	}

	if locked := lockout.RecordFailedAttempt(identifier); !locked {
		t.Error("3rd attempt should trigger lockout despite status checks")
	}
}

// TestAccountLockout_ResetAttempts tests resetting failed attempts.
func TestAccountLockout_ResetAttempts(t *testing.T) {
	lockout := NewAccountLockout(5, 10*time.Minute)

	identifier := "oldtimer"

	// Record 3 failed attempts
	for i := 0; i < 3; i++ {
		lockout.RecordFailedAttempt(identifier)
	}

	// Reset attempts (successful login)
	lockout.ResetAttempts(identifier)

	// Should not be locked
	if lockout.IsLocked(identifier) {
		t.Error("Should not be locked after reset")
	}

	// Can attempt again
	locked := lockout.RecordFailedAttempt(identifier)
	if locked {
		t.Error("Should not trigger lockout after reset")
	}
}

// TestAccountLockout_GetLockoutTimeRemaining tests remaining time calculation.
func TestAccountLockout_GetLockoutTimeRemaining(t *testing.T) {
	duration := 10 * time.Second
	lockout := NewAccountLockout(3, duration)

	identifier := "oldtimer"

	// Not locked, should return 0
	if remaining := lockout.GetLockoutTimeRemaining(identifier); remaining != 0 {
		t.Errorf("Expected 0 remaining, got %v", remaining)
	}

	// Trigger lockout
	for i := 0; i < 3; i++ {
		lockout.RecordFailedAttempt(identifier)
	}

	// Should have time remaining (close to duration)
	remaining := lockout.GetLockoutTimeRemaining(identifier)
	if remaining <= 0 || remaining > duration {
		t.Errorf("Expected remaining time between 0 and %v, got %v", duration, remaining)
	}
}

// TestRateLimiter_Concurrent tests thread safety of the rate limiter.
func TestRateLimiter_Concurrent(t *testing.T) {
	limiter := NewRateLimiter(100, 100*time.Millisecond)
	defer limiter.Stop()

	identifier := "oldtimer"
	done := make(chan bool)

	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 20; j++ {
				limiter.Allow(identifier)
			}
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

// TestAccountLockout_Concurrent tests thread safety of account lockout.
func TestAccountLockout_Concurrent(t *testing.T) {
	lockout := NewAccountLockout(50, 10*time.Minute)

	identifier := "oldtimer"
	done := make(chan bool)

	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 10; j++ {
				lockout.RecordFailedAttempt(identifier)
				lockout.IsLocked(identifier)
			}
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
