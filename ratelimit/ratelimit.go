package ratelimit

import (
	"sync"
	"time"

	"github.com/ch0002ic/creatorcoin-ai/exception"
)

// RateLimiterConfig holds configuration for rate limiting
type RateLimiterConfig struct {
	MaxRequests     int           // Maximum number of requests allowed
	WindowSize      time.Duration // Time window for rate limiting
	CleanupInterval time.Duration // How often to clean up expired entries
}

// DefaultConfig returns a default configuration
func DefaultConfig() *RateLimiterConfig {
	return &RateLimiterConfig{
		MaxRequests:     10,              // 10 requests
		WindowSize:      time.Second,     // per second
		CleanupInterval: 5 * time.Minute, // cleanup every 5 minutes
	}
}

// RateLimiter implements sliding window rate limiting per key
type RateLimiter struct {
	config      *RateLimiterConfig
	requests    map[string][]time.Time
	mu          sync.Mutex
	stopCleanup chan struct{}
	stopOnce    sync.Once
}

// NewRateLimiter creates a new rate limiter with the given configuration
func NewRateLimiter(config *RateLimiterConfig) *RateLimiter {
	if config == nil {
		config = DefaultConfig()
	}

	rl := &RateLimiter{
		config:      config,
		requests:    make(map[string][]time.Time),
		stopCleanup: make(chan struct{}),
	}

	exception.SafeGo("ratelimit-cleanup", rl.cleanupExpiredEntries)

	return rl
}

// Allow checks if a request from the given key is allowed and records it
// when so
func (rl *RateLimiter) Allow(key string) bool {
	now := time.Now()
	cutoff := now.Add(-rl.config.WindowSize)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	valid := pruneBefore(rl.requests[key], cutoff)
	if len(valid) >= rl.config.MaxRequests {
		rl.requests[key] = valid
		return false
	}

	rl.requests[key] = append(valid, now)
	return true
}

// GetStats returns the in-window request count and oldest timestamp for key
func (rl *RateLimiter) GetStats(key string) (int, time.Time) {
	cutoff := time.Now().Add(-rl.config.WindowSize)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	valid := pruneBefore(rl.requests[key], cutoff)
	if len(valid) == 0 {
		return 0, time.Time{}
	}
	return len(valid), valid[0]
}

// Reset removes all entries for a given key
func (rl *RateLimiter) Reset(key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.requests, key)
}

// ResetAll removes all entries
func (rl *RateLimiter) ResetAll() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.requests = make(map[string][]time.Time)
}

// cleanupExpiredEntries periodically removes expired entries to prevent memory leaks
func (rl *RateLimiter) cleanupExpiredEntries() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *RateLimiter) cleanup() {
	cutoff := time.Now().Add(-rl.config.WindowSize)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, requests := range rl.requests {
		valid := pruneBefore(requests, cutoff)
		if len(valid) == 0 {
			delete(rl.requests, key)
		} else {
			rl.requests[key] = valid
		}
	}
}

// Stop stops the cleanup goroutine
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

// pruneBefore keeps timestamps after the cutoff, preserving order
func pruneBefore(entries []time.Time, cutoff time.Time) []time.Time {
	valid := entries[:0:len(entries)]
	for _, ts := range entries {
		if ts.After(cutoff) {
			valid = append(valid, ts)
		}
	}
	return valid
}

// GlobalRateLimiter layers per-IP, per-account and whole-service limits
type GlobalRateLimiter struct {
	ipLimiter      *RateLimiter
	accountLimiter *RateLimiter
	globalLimiter  *RateLimiter
}

// GlobalRateLimiterConfig holds configuration for global rate limiting
type GlobalRateLimiterConfig struct {
	IPConfig      *RateLimiterConfig
	AccountConfig *RateLimiterConfig
	GlobalConfig  *RateLimiterConfig
}

// DefaultGlobalConfig returns a default global configuration
func DefaultGlobalConfig() *GlobalRateLimiterConfig {
	return &GlobalRateLimiterConfig{
		IPConfig: &RateLimiterConfig{
			MaxRequests:     50, // 50 requests per IP per second
			WindowSize:      time.Second,
			CleanupInterval: 5 * time.Minute,
		},
		AccountConfig: &RateLimiterConfig{
			MaxRequests:     30, // 30 requests per account per second
			WindowSize:      time.Second,
			CleanupInterval: 5 * time.Minute,
		},
		GlobalConfig: &RateLimiterConfig{
			MaxRequests:     1000, // 1000 total requests per second
			WindowSize:      time.Second,
			CleanupInterval: 5 * time.Minute,
		},
	}
}

// NewGlobalRateLimiter creates a new global rate limiter
func NewGlobalRateLimiter(config *GlobalRateLimiterConfig) *GlobalRateLimiter {
	if config == nil {
		config = DefaultGlobalConfig()
	}

	return &GlobalRateLimiter{
		ipLimiter:      NewRateLimiter(config.IPConfig),
		accountLimiter: NewRateLimiter(config.AccountConfig),
		globalLimiter:  NewRateLimiter(config.GlobalConfig),
	}
}

// AllowIP checks if a request from the given IP is allowed
func (grl *GlobalRateLimiter) AllowIP(ip string) bool {
	return grl.ipLimiter.Allow(ip)
}

// AllowAccount checks if a request touching the given account is allowed
func (grl *GlobalRateLimiter) AllowAccount(account string) bool {
	return grl.accountLimiter.Allow(account)
}

// AllowGlobal checks if a service-wide request is allowed
func (grl *GlobalRateLimiter) AllowGlobal() bool {
	return grl.globalLimiter.Allow("global")
}

// AllowAll checks IP, account and global limits in that order. An empty
// account skips the account dimension.
func (grl *GlobalRateLimiter) AllowAll(ip, account string) bool {
	if !grl.ipLimiter.Allow(ip) {
		return false
	}
	if account != "" && !grl.accountLimiter.Allow(account) {
		return false
	}
	return grl.globalLimiter.Allow("global")
}

// ResetAll resets all rate limiters
func (grl *GlobalRateLimiter) ResetAll() {
	grl.ipLimiter.ResetAll()
	grl.accountLimiter.ResetAll()
	grl.globalLimiter.ResetAll()
}

// Stop stops all rate limiters
func (grl *GlobalRateLimiter) Stop() {
	grl.ipLimiter.Stop()
	grl.accountLimiter.Stop()
	grl.globalLimiter.Stop()
}
