package ratelimit

import (
	"testing"
	"time"
)

func TestFixedWindowRateLimiter_NewFixedWindowRateLimiter(t *testing.T) {
	config := &FixedWindowConfig{
		WindowSize:      time.Minute,
		MaxRequests:     10,
		CleanupInterval: 5 * time.Minute,
	}

	limiter := NewFixedWindowRateLimiter(config)
	defer limiter.Stop()

	if limiter == nil {
		t.Fatal("Expected non-nil limiter")
	}

	if limiter.windowSize != config.WindowSize {
		t.Errorf("Expected window size %v, got %v", config.WindowSize, limiter.windowSize)
	}

	if limiter.maxRequests != config.MaxRequests {
		t.Errorf("Expected max requests %d, got %d", config.MaxRequests, limiter.maxRequests)
	}
}

func TestFixedWindowRateLimiter_IsAllowed_FirstRequest(t *testing.T) {
	config := &FixedWindowConfig{
		WindowSize:      time.Minute,
		MaxRequests:     5,
		CleanupInterval: 5 * time.Minute,
	}

	limiter := NewFixedWindowRateLimiter(config)
	defer limiter.Stop()

	// First request should be allowed
	allowed := limiter.IsAllowed("test-client")
	if !allowed {
		t.Error("First request should be allowed")
	}

	// Check quota
	quota := limiter.GetQuota("test-client")
	if quota.Remaining != 4 {
		t.Errorf("Expected 4 remaining requests, got %d", quota.Remaining)
	}
}

func TestFixedWindowRateLimiter_IsAllowed_WithinLimit(t *testing.T) {
	config := &FixedWindowConfig{
		WindowSize:      time.Minute,
		MaxRequests:     3,
		CleanupInterval: 5 * time.Minute,
	}

	limiter := NewFixedWindowRateLimiter(config)
	defer limiter.Stop()

	identifier := "test-client"

	// Make requests within limit
	for i := 0; i < 3; i++ {
		allowed := limiter.IsAllowed(identifier)
		if !allowed {
			t.Errorf("Request %d should be allowed", i+1)
		}
	}

	// Check quota after all requests
	quota := limiter.GetQuota(identifier)
	if quota.Remaining != 0 {
		t.Errorf("Expected 0 remaining requests, got %d", quota.Remaining)
	}
}

func TestFixedWindowRateLimiter_IsAllowed_ExceedsLimit(t *testing.T) {
	config := &FixedWindowConfig{
		WindowSize:      time.Minute,
		MaxRequests:     2,
		CleanupInterval: 5 * time.Minute,
	}

	limiter := NewFixedWindowRateLimiter(config)
	defer limiter.Stop()

	identifier := "test-client"

	// Make requests up to limit
	for i := 0; i < 2; i++ {
		allowed := limiter.IsAllowed(identifier)
		if !allowed {
			t.Errorf("Request %d should be allowed", i+1)
		}
	}

	// Next request should be denied
	allowed := limiter.IsAllowed(identifier)
	if allowed {
		t.Error("Request exceeding limit should be denied")
	}

	// Check quota
	quota := limiter.GetQuota(identifier)
	if quota.Remaining != 0 {
		t.Errorf("Expected 0 remaining requests, got %d", quota.Remaining)
	}
}

func TestFixedWindowRateLimiter_WindowReset(t *testing.T) {
	config := &FixedWindowConfig{
		WindowSize:      100 * time.Millisecond, // Very short window for testing
		MaxRequests:     2,
		CleanupInterval: 5 * time.Minute,
	}

	limiter := NewFixedWindowRateLimiter(config)
	defer limiter.Stop()

	identifier := "test-client"

	// Use up the quota
	for i := 0; i < 2; i++ {
		allowed := limiter.IsAllowed(identifier)
		if !allowed {
			t.Errorf("Request %d should be allowed", i+1)
		}
	}

	// Check quota after using up all requests
	quota := limiter.GetQuota(identifier)
	t.Logf("After consuming all requests: remaining=%d, limit=%d", quota.Remaining, quota.Limit)

	// Next request should be denied
	allowed := limiter.IsAllowed(identifier)
	if allowed {
		t.Error("Request exceeding limit should be denied")
	}

	// Wait for window to reset - use longer time to ensure we're in a new window
	time.Sleep(200 * time.Millisecond)

	// Check quota before making new request
	quota = limiter.GetQuota(identifier)
	t.Logf("After window reset, before new request: remaining=%d, limit=%d", quota.Remaining, quota.Limit)

	// Request should be allowed again
	allowed = limiter.IsAllowed(identifier)
	if !allowed {
		t.Error("Request should be allowed after window reset")
	}

	// Check quota after making one request in new window
	quota = limiter.GetQuota(identifier)
	t.Logf("After making 1 request in new window: remaining=%d, limit=%d", quota.Remaining, quota.Limit)
	if quota.Remaining != 1 {
		t.Errorf("Expected 1 remaining request after consuming 1 in new window, got %d", quota.Remaining)
	}
}

func TestFixedWindowRateLimiter_MultipleClients(t *testing.T) {
	config := &FixedWindowConfig{
		WindowSize:      time.Minute,
		MaxRequests:     2,
		CleanupInterval: 5 * time.Minute,
	}

	limiter := NewFixedWindowRateLimiter(config)
	defer limiter.Stop()

	client1 := "client-1"
	client2 := "client-2"

	// Each client should have independent quota
	for i := 0; i < 2; i++ {
		allowed1 := limiter.IsAllowed(client1)
		allowed2 := limiter.IsAllowed(client2)

		if !allowed1 {
			t.Errorf("Client 1 request %d should be allowed", i+1)
		}
		if !allowed2 {
			t.Errorf("Client 2 request %d should be allowed", i+1)
		}
	}

	// Both clients should be at limit
	allowed1 := limiter.IsAllowed(client1)
	allowed2 := limiter.IsAllowed(client2)

	if allowed1 {
		t.Error("Client 1 should be rate limited")
	}
	if allowed2 {
		t.Error("Client 2 should be rate limited")
	}
}

func TestFixedWindowRateLimiter_GetStats(t *testing.T) {
	config := &FixedWindowConfig{
		WindowSize:      time.Minute,
		MaxRequests:     5,
		CleanupInterval: 5 * time.Minute,
	}

	limiter := NewFixedWindowRateLimiter(config)
	defer limiter.Stop()

	// Make some requests
	limiter.IsAllowed("client-1")
	limiter.IsAllowed("client-1")
	limiter.IsAllowed("client-2")

	stats := limiter.GetStats()

	if stats.Algorithm != "fixed_window" {
		t.Errorf("Expected algorithm 'fixed_window', got %s", stats.Algorithm)
	}

	if stats.MaxRequests != 5 {
		t.Errorf("Expected max requests 5, got %d", stats.MaxRequests)
	}

	if stats.WindowSize != time.Minute {
		t.Errorf("Expected window size %v, got %v", time.Minute, stats.WindowSize)
	}

	if stats.TotalIdentifiers != 2 {
		t.Errorf("Expected 2 total identifiers, got %d", stats.TotalIdentifiers)
	}
}
