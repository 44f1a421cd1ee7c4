package application

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/oksasatya/go-ddd-social-graph/internal/domain/entity"
	"github.com/oksasatya/go-ddd-social-graph/internal/domain/identity"
	repo "github.com/oksasatya/go-ddd-social-graph/internal/domain/repository"
)

// memStore is an in-memory stand-in for the Postgres repositories. It keeps
// the same edge-table model: following/followers are projected on read.
type memStore struct {
	mu            sync.Mutex
	seq           int
	users         map[string]*entity.User
	edges         map[[2]string]time.Time
	notifications []entity.Notification
	writes        int

	createErr error
}

func newMemStore() *memStore {
	return &memStore{users: map[string]*entity.User{}, edges: map[[2]string]time.Time{}}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return prefix + "-" + strconv.Itoa(m.seq)
}

func (m *memStore) project(u *entity.User) *entity.User {
	cp := *u
	cp.Following = []string{}
	cp.Followers = []string{}
	for e := range m.edges {
		if e[0] == u.ID {
			cp.Following = append(cp.Following, e[1])
		}
		if e[1] == u.ID {
			cp.Followers = append(cp.Followers, e[0])
		}
	}
	sort.Strings(cp.Following)
	sort.Strings(cp.Followers)
	return &cp
}

func (m *memStore) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.users {
		if existing.ExternalID == u.ExternalID || existing.Username == u.Username {
			return repo.ErrDuplicate
		}
	}
	m.writes++
	u.ID = m.nextID("u")
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	u.Following = []string{}
	u.Followers = []string{}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memStore) find(match func(*entity.User) bool) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			return m.project(u), nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memStore) GetByID(_ context.Context, id string) (*entity.User, error) {
	return m.find(func(u *entity.User) bool { return u.ID == id })
}

func (m *memStore) GetByExternalID(_ context.Context, externalID string) (*entity.User, error) {
	return m.find(func(u *entity.User) bool { return u.ExternalID == externalID })
}

func (m *memStore) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return m.find(func(u *entity.User) bool { return u.Username == username })
}

func (m *memStore) Update(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.users[u.ID]
	if !ok {
		return repo.ErrNotFound
	}
	for id, other := range m.users {
		if id != u.ID && other.Username == u.Username {
			return repo.ErrDuplicate
		}
	}
	m.writes++
	cur.Username = u.Username
	cur.FirstName = u.FirstName
	cur.LastName = u.LastName
	cur.ProfilePicture = u.ProfilePicture
	cur.UpdatedAt = time.Now()
	u.UpdatedAt = cur.UpdatedAt
	return nil
}

func (m *memStore) summaries(ids []string) []entity.UserSummary {
	out := make([]entity.UserSummary, 0, len(ids))
	for _, id := range ids {
		u := m.users[id]
		out = append(out, entity.UserSummary{ID: u.ID, Username: u.Username, FirstName: u.FirstName, LastName: u.LastName})
	}
	return out
}

func (m *memStore) ListFollowers(_ context.Context, userID string) ([]entity.UserSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.summaries(m.project(m.users[userID]).Followers), nil
}

func (m *memStore) ListFollowing(_ context.Context, userID string) ([]entity.UserSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.summaries(m.project(m.users[userID]).Following), nil
}

func (m *memStore) Follow(_ context.Context, followerID, followeeID string, n *entity.Notification) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[followeeID]; !ok {
		return false, repo.ErrNotFound
	}
	key := [2]string{followerID, followeeID}
	if _, ok := m.edges[key]; ok {
		return false, nil
	}
	m.writes++
	m.edges[key] = time.Now()
	if n != nil {
		n.ID = m.nextID("n")
		n.CreatedAt = time.Now()
		m.notifications = append(m.notifications, *n)
	}
	return true, nil
}

func (m *memStore) Unfollow(_ context.Context, followerID, followeeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]string{followerID, followeeID}
	if _, ok := m.edges[key]; !ok {
		return false, nil
	}
	m.writes++
	delete(m.edges, key)
	return true, nil
}

func (m *memStore) ListForUser(_ context.Context, userID string, limit int) ([]entity.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Notification
	for i := len(m.notifications) - 1; i >= 0 && len(out) < limit; i-- {
		if m.notifications[i].ToUserID == userID {
			out = append(out, m.notifications[i])
		}
	}
	return out, nil
}

func (m *memStore) MarkRead(_ context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.notifications {
		if m.notifications[i].ID == id && m.notifications[i].ToUserID == userID {
			m.notifications[i].IsRead = true
			return nil
		}
	}
	return repo.ErrNotFound
}

func (m *memStore) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// fakeDirectory serves identity attributes from a map.
type fakeDirectory struct {
	users map[string]*identity.Attributes
	err   error
	calls int
}

func (d *fakeDirectory) GetUser(_ context.Context, id string) (*identity.Attributes, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	a, ok := d.users[id]
	if !ok {
		return nil, identity.ErrNotFound
	}
	return a, nil
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []any
	err  error
}

func (p *fakePublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, body)
	return nil
}

type fakeCache struct {
	data        map[string]*entity.User
	gens        map[string]int64
	invalidated []string
	getErr      error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]*entity.User{}, gens: map[string]int64{}}
}

func (c *fakeCache) Get(_ context.Context, externalID string) (*entity.User, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	u, ok := c.data[externalID]
	return u, ok, nil
}

func (c *fakeCache) Generation(_ context.Context, externalID string) (int64, error) {
	return c.gens[externalID], nil
}

func (c *fakeCache) Set(_ context.Context, u *entity.User, gen int64) error {
	if c.gens[u.ExternalID] != gen {
		return nil
	}
	c.data[u.ExternalID] = u
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, externalIDs ...string) error {
	for _, id := range externalIDs {
		delete(c.data, id)
		c.gens[id]++
		c.invalidated = append(c.invalidated, id)
	}
	return nil
}

var errBoom = errors.New("boom")

// racingUsers hides existing rows from the first lookups, as if another
// request created them in between.
type racingUsers struct {
	*memStore
	misses int
}

func (r *racingUsers) GetByExternalID(ctx context.Context, externalID string) (*entity.User, error) {
	if r.misses > 0 {
		r.misses--
		return nil, repo.ErrNotFound
	}
	return r.memStore.GetByExternalID(ctx, externalID)
}

// writeDuringRead runs onRead after loading a user, standing in for a
// request that commits a change between the load and the cache fill.
type writeDuringRead struct {
	*memStore
	onRead func()
}

func (w *writeDuringRead) GetByExternalID(ctx context.Context, externalID string) (*entity.User, error) {
	u, err := w.memStore.GetByExternalID(ctx, externalID)
	if fn := w.onRead; fn != nil {
		w.onRead = nil
		fn()
	}
	return u, err
}

// alwaysTaken rejects every insert as a username clash.
type alwaysTaken struct {
	*memStore
	creates int
}

func (a *alwaysTaken) Create(context.Context, *entity.User) error {
	a.creates++
	return repo.ErrDuplicate
}
