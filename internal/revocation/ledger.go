// Package revocation holds the ledger of tokens invalidated before their
// natural expiry. Entries live exactly as long as the token window, so once
// an entry is evicted the token it blocked could no longer verify anyway.
package revocation

import "context"

// Ledger is the revocation store contract. Revoke is idempotent: revoking
// an already-revoked token is a successful no-op. Implementations must
// evict entries once the token window has elapsed; whether that happens via
// a storage-native TTL or a periodic sweep is invisible to callers.
type Ledger interface {
	Revoke(ctx context.Context, tokenValue string) error
	IsRevoked(ctx context.Context, tokenValue string) (bool, error)
}
