package client

import (
	"context"
	"sync"
)

type SyncState int

const (
	SyncIdle SyncState = iota
	SyncInFlight
	SyncSynced
	SyncFailed
)

func (s SyncState) String() string {
	switch s {
	case SyncInFlight:
		return "in_flight"
	case SyncSynced:
		return "synced"
	case SyncFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Syncer is satisfied by *Client.
type Syncer interface {
	Sync(ctx context.Context) (SyncResult, error)
}

// SyncTrigger runs the user sync at most once per enablement. It fires only
// on a disabled -> enabled edge while neither synced nor in flight. A failed
// sync stays failed until enablement drops and rises again; there is no
// automatic retry. Dropping enablement (sign-out) forgets the outcome, so
// the next sign-in syncs whoever signed in.
type SyncTrigger struct {
	api Syncer

	mu      sync.Mutex
	enabled bool
	epoch   uint64
	state   SyncState
	err     error
}

func NewSyncTrigger(api Syncer) *SyncTrigger {
	return &SyncTrigger{api: api}
}

// SetEnabled reports the latest "provider loaded and signed in" value. When
// it fires a sync, the call blocks until the sync finishes.
func (t *SyncTrigger) SetEnabled(ctx context.Context, enabled bool) {
	t.mu.Lock()
	rising := enabled && !t.enabled
	if !enabled && t.enabled {
		// results of a sync still in flight belong to the old session
		t.epoch++
		t.state = SyncIdle
		t.err = nil
	}
	t.enabled = enabled
	if !rising || t.state == SyncSynced || t.state == SyncInFlight {
		t.mu.Unlock()
		return
	}
	t.state = SyncInFlight
	t.err = nil
	epoch := t.epoch
	t.mu.Unlock()

	_, err := t.api.Sync(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()
	if epoch != t.epoch {
		return
	}
	if err != nil {
		t.state = SyncFailed
		t.err = err
		return
	}
	t.state = SyncSynced
}

// Synced is the only flag the navigation shell needs.
func (t *SyncTrigger) Synced() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == SyncSynced
}

func (t *SyncTrigger) State() SyncState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Err is the last sync failure, if any.
func (t *SyncTrigger) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}
