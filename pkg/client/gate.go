package client

// Screen is what the app shell should show.
type Screen int

const (
	ScreenLoading Screen = iota
	ScreenAuth
	ScreenTabs
)

func (s Screen) String() string {
	switch s {
	case ScreenAuth:
		return "auth"
	case ScreenTabs:
		return "tabs"
	default:
		return "loading"
	}
}

// AuthState is the identity provider SDK's view of the session.
type AuthState struct {
	Loaded   bool
	SignedIn bool
}

// Gate picks the screen; the first matching rule wins:
//  1. provider not loaded: loading
//  2. not signed in: auth
//  3. sync pending or in flight, or profile loading: loading
//  4. sync failed, profile error or no profile: auth
//  5. otherwise: tabs
//
// Any failure after sign-in sends the user back to auth.
func Gate(auth AuthState, sync SyncState, profile ProfileState) Screen {
	switch {
	case !auth.Loaded:
		return ScreenLoading
	case !auth.SignedIn:
		return ScreenAuth
	case sync == SyncIdle || sync == SyncInFlight || profile.Loading:
		return ScreenLoading
	case sync == SyncFailed || profile.Err != nil || profile.User == nil:
		return ScreenAuth
	default:
		return ScreenTabs
	}
}
