package revocation

import (
	"context"
	"sync"
	"time"
)

// MemoryLedger is a process-local ledger for deployments without Redis and
// for tests. Entries expire lazily on lookup and eagerly via a background
// sweep, so eviction latency is bounded by the sweep interval even for
// tokens that are never looked up again.
type MemoryLedger struct {
	mu      sync.RWMutex
	entries map[string]time.Time // token -> revocation time
	window  time.Duration
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

// NewMemoryLedger builds a ledger whose entries live for window. A nil now
// falls back to time.Now; tests inject a fake clock here.
func NewMemoryLedger(window time.Duration, now func() time.Time) *MemoryLedger {
	if now == nil {
		now = time.Now
	}
	return &MemoryLedger{
		entries: make(map[string]time.Time),
		window:  window,
		now:     now,
		stop:    make(chan struct{}),
	}
}

// Revoke records the token with the current timestamp. Re-revoking an
// existing entry keeps the original timestamp so the entry still expires
// with the token, not later.
func (l *MemoryLedger) Revoke(_ context.Context, tokenValue string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.entries[tokenValue]; !ok {
		l.entries[tokenValue] = l.now()
	}
	return nil
}

// IsRevoked reports whether the token has an unexpired entry. An expired
// entry found here is removed on the spot.
func (l *MemoryLedger) IsRevoked(_ context.Context, tokenValue string) (bool, error) {
	l.mu.RLock()
	at, ok := l.entries[tokenValue]
	l.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if l.now().Sub(at) >= l.window {
		l.mu.Lock()
		delete(l.entries, tokenValue)
		l.mu.Unlock()
		return false, nil
	}
	return true, nil
}

// StartSweep launches the background eviction loop. It runs until Close.
func (l *MemoryLedger) StartSweep(interval time.Duration) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				l.sweep()
			case <-l.stop:
				return
			}
		}
	}()
}

// Close stops the sweep loop.
func (l *MemoryLedger) Close() {
	l.once.Do(func() { close(l.stop) })
}

func (l *MemoryLedger) sweep() {
	cutoff := l.now().Add(-l.window)
	l.mu.Lock()
	defer l.mu.Unlock()
	for tok, at := range l.entries {
		if !at.After(cutoff) {
			delete(l.entries, tok)
		}
	}
}
