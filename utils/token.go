package utils

import (
	"context"
	"sync"
	"time"
)

var (
	blacklistedTokens = make(map[string]time.Time)
	blacklistMutex    sync.RWMutex
)

// BlacklistToken revokes a token until its natural expiry.
func BlacklistToken(token string, until time.Time) {
	blacklistMutex.Lock()
	defer blacklistMutex.Unlock()
	blacklistedTokens[token] = until
}

func IsTokenBlacklisted(token string) bool {
	blacklistMutex.RLock()
	expiry, exists := blacklistedTokens[token]
	blacklistMutex.RUnlock()

	return exists && time.Now().Before(expiry)
}

// PurgeExpiredTokens drops blacklist entries whose tokens expired anyway.
func PurgeExpiredTokens() int {
	blacklistMutex.Lock()
	defer blacklistMutex.Unlock()

	now := time.Now()
	purged := 0
	for token, expiry := range blacklistedTokens {
		if now.After(expiry) {
			delete(blacklistedTokens, token)
			purged++
		}
	}
	return purged
}

// StartBlacklistCleanup purges the blacklist every interval until ctx ends.
func StartBlacklistCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if n := PurgeExpiredTokens(); n > 0 {
					InfoLogger.Debugf("Purged %d expired tokens from blacklist", n)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}
