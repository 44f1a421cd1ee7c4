package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-social-graph/internal/domain/entity"
	"github.com/oksasatya/go-ddd-social-graph/internal/domain/identity"
)

// A fresh identity signs in, syncs, loads its profile, then follows and
// unfollows an existing user.
func TestScenario_SignInSyncFollowUnfollow(t *testing.T) {
	dir := &fakeDirectory{users: map[string]*identity.Attributes{
		"idp_a": {ID: "idp_a", PrimaryEmail: "anna@example.com", FirstName: "Anna"},
	}}
	svc, store := newTestService(dir)
	ctx := context.Background()
	b := seedUser(t, store, "idp_b", "bruno")

	a, created, err := svc.Sync(ctx, "idp_a")
	require.NoError(t, err)
	require.True(t, created)
	assert.Empty(t, a.Following)
	assert.Empty(t, a.Followers)

	me, err := svc.GetCurrent(ctx, "idp_a")
	require.NoError(t, err)
	assert.Equal(t, a.ID, me.ID)
	assert.Equal(t, "anna", me.Username)

	res, err := svc.ToggleFollow(ctx, "idp_a", b.ID)
	require.NoError(t, err)
	assert.Equal(t, "followed", res.Message)

	me, _ = svc.GetCurrent(ctx, "idp_a")
	bNow, _ := svc.GetByUsername(ctx, "bruno")
	assert.Equal(t, []string{b.ID}, me.Following)
	assert.Equal(t, []string{a.ID}, bNow.Followers)
	require.Len(t, store.notifications, 1)
	assert.Equal(t, a.ID, store.notifications[0].FromUserID)
	assert.Equal(t, b.ID, store.notifications[0].ToUserID)
	assert.Equal(t, entity.NotificationFollow, store.notifications[0].Type)

	res, err = svc.ToggleFollow(ctx, "idp_a", b.ID)
	require.NoError(t, err)
	assert.Equal(t, "unfollowed", res.Message)

	me, _ = svc.GetCurrent(ctx, "idp_a")
	bNow, _ = svc.GetByUsername(ctx, "bruno")
	assert.Empty(t, me.Following)
	assert.Empty(t, bNow.Followers)
	assert.Len(t, store.notifications, 1)
}
