package client

import (
	"context"
	"sync"
)

// CurrentUserFetcher is satisfied by *Client.
type CurrentUserFetcher interface {
	CurrentUser(ctx context.Context) (*User, error)
}

type ProfileState struct {
	Loading bool
	Err     error
	User    *User
}

// ProfileLoader caches the caller's own profile. It does nothing until
// enabled, which the app does once the sync trigger reports synced.
// Disabling it drops the cached profile.
type ProfileLoader struct {
	api CurrentUserFetcher

	mu      sync.Mutex
	enabled bool
	epoch   uint64
	loaded  bool
	state   ProfileState
}

func NewProfileLoader(api CurrentUserFetcher) *ProfileLoader {
	return &ProfileLoader{api: api}
}

// SetEnabled loads the profile the first time the loader becomes enabled.
func (l *ProfileLoader) SetEnabled(ctx context.Context, enabled bool) {
	l.mu.Lock()
	if !enabled && l.enabled {
		l.epoch++
		l.loaded = false
		l.state = ProfileState{}
	}
	l.enabled = enabled
	first := enabled && !l.loaded && !l.state.Loading
	l.mu.Unlock()
	if first {
		l.fetch(ctx)
	}
}

// Load returns the cached state, fetching only if nothing was loaded yet.
func (l *ProfileLoader) Load(ctx context.Context) ProfileState {
	l.mu.Lock()
	need := l.enabled && !l.loaded && !l.state.Loading
	l.mu.Unlock()
	if need {
		l.fetch(ctx)
	}
	return l.State()
}

// Refetch always asks the server again, e.g. after a profile edit or a follow.
func (l *ProfileLoader) Refetch(ctx context.Context) ProfileState {
	l.mu.Lock()
	enabled := l.enabled
	l.mu.Unlock()
	if enabled {
		l.fetch(ctx)
	}
	return l.State()
}

// State reports Loading while enabled and not yet loaded, so the gate never
// sees an enabled loader with no profile and no error.
func (l *ProfileLoader) State() ProfileState {
	l.mu.Lock()
	defer l.mu.Unlock()
	st := l.state
	if l.enabled && !l.loaded {
		st.Loading = true
	}
	return st
}

func (l *ProfileLoader) fetch(ctx context.Context) {
	l.mu.Lock()
	l.state.Loading = true
	epoch := l.epoch
	l.mu.Unlock()

	u, err := l.api.CurrentUser(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if epoch != l.epoch {
		return
	}
	l.loaded = true
	l.state.Loading = false
	l.state.Err = err
	if err == nil {
		l.state.User = u
	}
}
