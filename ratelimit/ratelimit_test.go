package ratelimit

import (
	"testing"
	"time"
)

func TestAllowWithinLimit(t *testing.T) {
	rl := NewRateLimiter(&RateLimiterConfig{
		MaxRequests:     3,
		WindowSize:      time.Minute,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("client-1") {
			t.Fatalf("Expected request %d to be allowed", i+1)
		}
	}
	if rl.Allow("client-1") {
		t.Error("Expected 4th request to be denied")
	}
}

func TestWindowSlides(t *testing.T) {
	rl := NewRateLimiter(&RateLimiterConfig{
		MaxRequests:     2,
		WindowSize:      100 * time.Millisecond,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()

	if !rl.Allow("client-1") || !rl.Allow("client-1") {
		t.Fatal("Expected first two requests to be allowed")
	}
	if rl.Allow("client-1") {
		t.Error("Expected request over the limit to be denied")
	}

	time.Sleep(150 * time.Millisecond)

	if !rl.Allow("client-1") {
		t.Error("Expected request to be allowed after the window slid")
	}
}

func TestAllowIsPerKey(t *testing.T) {
	rl := NewRateLimiter(&RateLimiterConfig{
		MaxRequests:     1,
		WindowSize:      time.Minute,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()

	if !rl.Allow("client-1") {
		t.Fatal("Expected first key to be allowed")
	}
	if !rl.Allow("client-2") {
		t.Error("Expected a different key to have its own budget")
	}
	if rl.Allow("client-1") {
		t.Error("Expected first key to be exhausted")
	}
}

func TestGetStats(t *testing.T) {
	rl := NewRateLimiter(&RateLimiterConfig{
		MaxRequests:     5,
		WindowSize:      time.Minute,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()

	count, oldest := rl.GetStats("client-1")
	if count != 0 || !oldest.IsZero() {
		t.Errorf("Expected empty stats, got count=%d oldest=%v", count, oldest)
	}

	rl.Allow("client-1")
	rl.Allow("client-1")

	count, oldest = rl.GetStats("client-1")
	if count != 2 {
		t.Errorf("Expected 2 in-window requests, got %d", count)
	}
	if oldest.IsZero() {
		t.Error("Expected non-zero oldest timestamp")
	}
}

func TestResetPerKey(t *testing.T) {
	rl := NewRateLimiter(&RateLimiterConfig{
		MaxRequests:     1,
		WindowSize:      time.Minute,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()

	rl.Allow("client-1")
	rl.Allow("client-2")
	rl.Reset("client-1")

	if !rl.Allow("client-1") {
		t.Error("Expected reset key to be allowed again")
	}
	if rl.Allow("client-2") {
		t.Error("Expected unreset key to stay exhausted")
	}
}

func TestResetAll(t *testing.T) {
	rl := NewRateLimiter(&RateLimiterConfig{
		MaxRequests:     1,
		WindowSize:      time.Minute,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()

	rl.Allow("client-1")
	rl.Allow("client-2")
	rl.ResetAll()

	if !rl.Allow("client-1") || !rl.Allow("client-2") {
		t.Error("Expected all keys to be allowed after ResetAll")
	}
}

func TestNilConfigUsesDefaults(t *testing.T) {
	rl := NewRateLimiter(nil)
	defer rl.Stop()

	for i := 0; i < 10; i++ {
		if !rl.Allow("client-1") {
			t.Fatalf("Expected request %d to be allowed under default config", i+1)
		}
	}
	if rl.Allow("client-1") {
		t.Error("Expected 11th request to exceed the default limit")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(nil)
	rl.Stop()
	rl.Stop()
}

func TestDefaultGlobalConfig(t *testing.T) {
	cfg := DefaultGlobalConfig()

	if cfg.IPConfig.MaxRequests != 50 {
		t.Errorf("Expected 50 requests per IP, got %d", cfg.IPConfig.MaxRequests)
	}
	if cfg.AccountConfig.MaxRequests != 30 {
		t.Errorf("Expected 30 requests per account, got %d", cfg.AccountConfig.MaxRequests)
	}
	if cfg.GlobalConfig.MaxRequests != 1000 {
		t.Errorf("Expected 1000 global requests, got %d", cfg.GlobalConfig.MaxRequests)
	}
	for _, c := range []*RateLimiterConfig{cfg.IPConfig, cfg.AccountConfig, cfg.GlobalConfig} {
		if c.WindowSize != time.Second {
			t.Errorf("Expected 1s window, got %s", c.WindowSize)
		}
	}
}

func TestAllowAllLayersLimits(t *testing.T) {
	grl := NewGlobalRateLimiter(&GlobalRateLimiterConfig{
		IPConfig:      &RateLimiterConfig{MaxRequests: 5, WindowSize: time.Minute, CleanupInterval: time.Minute},
		AccountConfig: &RateLimiterConfig{MaxRequests: 2, WindowSize: time.Minute, CleanupInterval: time.Minute},
		GlobalConfig:  &RateLimiterConfig{MaxRequests: 100, WindowSize: time.Minute, CleanupInterval: time.Minute},
	})
	defer grl.Stop()

	// The account dimension is the tightest here.
	if !grl.AllowAll("10.0.0.1", "alice") {
		t.Fatal("Expected first request to be allowed")
	}
	if !grl.AllowAll("10.0.0.1", "alice") {
		t.Fatal("Expected second request to be allowed")
	}
	if grl.AllowAll("10.0.0.1", "alice") {
		t.Error("Expected third request to hit the account limit")
	}

	// Another account from the same IP still fits.
	if !grl.AllowAll("10.0.0.1", "bob") {
		t.Error("Expected a different account to be allowed")
	}
}

func TestAllowAllEmptyAccountSkipsAccountLimit(t *testing.T) {
	grl := NewGlobalRateLimiter(&GlobalRateLimiterConfig{
		IPConfig:      &RateLimiterConfig{MaxRequests: 10, WindowSize: time.Minute, CleanupInterval: time.Minute},
		AccountConfig: &RateLimiterConfig{MaxRequests: 1, WindowSize: time.Minute, CleanupInterval: time.Minute},
		GlobalConfig:  &RateLimiterConfig{MaxRequests: 100, WindowSize: time.Minute, CleanupInterval: time.Minute},
	})
	defer grl.Stop()

	// Requests with no account never consume account budget.
	for i := 0; i < 5; i++ {
		if !grl.AllowAll("10.0.0.1", "") {
			t.Fatalf("Expected account-less request %d to be allowed", i+1)
		}
	}
}

func TestAllowAllGlobalCeiling(t *testing.T) {
	grl := NewGlobalRateLimiter(&GlobalRateLimiterConfig{
		IPConfig:      &RateLimiterConfig{MaxRequests: 100, WindowSize: time.Minute, CleanupInterval: time.Minute},
		AccountConfig: &RateLimiterConfig{MaxRequests: 100, WindowSize: time.Minute, CleanupInterval: time.Minute},
		GlobalConfig:  &RateLimiterConfig{MaxRequests: 3, WindowSize: time.Minute, CleanupInterval: time.Minute},
	})
	defer grl.Stop()

	// Spread across IPs and accounts, the global ceiling still applies.
	ips := []string{"10.0.0.1", "10.0.0.2", "10.0.0.3", "10.0.0.4"}
	allowed := 0
	for i, ip := range ips {
		if grl.AllowAll(ip, "") {
			allowed++
		} else if i != len(ips)-1 {
			t.Errorf("Expected request %d to pass before the ceiling", i+1)
		}
	}
	if allowed != 3 {
		t.Errorf("Expected 3 requests through the global ceiling, got %d", allowed)
	}

	grl.ResetAll()
	if !grl.AllowAll("10.0.0.1", "") {
		t.Error("Expected request after ResetAll to be allowed")
	}
}
