package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"linkup/models"
)

func TestSendFriendRequest(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	alice := seedUser(t, st, "alice")
	bob := seedUser(t, st, "bob")

	req, err := svc.SendFriendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FriendRequestPending, req.Status)

	require.Eventually(t, func() bool {
		return notificationCount(t, st, bob.ID, models.NotificationFriendRequest) == 1
	}, waitFor, 10*time.Millisecond)
}

func TestSendFriendRequestRejectsSelf(t *testing.T) {
	svc, st := newTestService(t)
	alice := seedUser(t, st, "alice")

	_, err := svc.SendFriendRequest(context.Background(), alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrSelfFriendRequest)
}

func TestSendFriendRequestUnknownTarget(t *testing.T) {
	svc, st := newTestService(t)
	alice := seedUser(t, st, "alice")

	_, err := svc.SendFriendRequest(context.Background(), alice.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSendFriendRequestRejectsDuplicatesBothDirections(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	alice := seedUser(t, st, "alice")
	bob := seedUser(t, st, "bob")

	_, err := svc.SendFriendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = svc.SendFriendRequest(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrFriendRequestExists)

	// The reverse direction is a duplicate too.
	_, err = svc.SendFriendRequest(ctx, bob.ID, alice.ID)
	assert.ErrorIs(t, err, ErrFriendRequestExists)
}

func TestRespondFriendRequestAccept(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	alice := seedUser(t, st, "alice")
	bob := seedUser(t, st, "bob")

	req, err := svc.SendFriendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	accepted, err := svc.RespondFriendRequest(ctx, req.ID, bob.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.FriendRequestAccepted, accepted.Status)
	assert.NotZero(t, accepted.RespondedAt)

	// Both sides now list each other.
	friends, err := svc.ListFriends(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, bob.ID, friends[0].ID)

	friends, err = svc.ListFriends(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, alice.ID, friends[0].ID)

	// A new request between friends is rejected.
	_, err = svc.SendFriendRequest(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrAlreadyFriends)

	// The requester hears back.
	require.Eventually(t, func() bool {
		return notificationCount(t, st, alice.ID, models.NotificationOther) == 1
	}, waitFor, 10*time.Millisecond)
}

func TestRespondFriendRequestDecline(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	alice := seedUser(t, st, "alice")
	bob := seedUser(t, st, "bob")

	req, err := svc.SendFriendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	declined, err := svc.RespondFriendRequest(ctx, req.ID, bob.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.FriendRequestDeclined, declined.Status)

	friends, err := svc.ListFriends(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, friends)

	// Declining frees the pair for a fresh request.
	_, err = svc.SendFriendRequest(ctx, alice.ID, bob.ID)
	assert.NoError(t, err)
}

func TestRespondFriendRequestWrongRecipient(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	alice := seedUser(t, st, "alice")
	bob := seedUser(t, st, "bob")
	mallory := seedUser(t, st, "mallory")

	req, err := svc.SendFriendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = svc.RespondFriendRequest(ctx, req.ID, mallory.ID, true)
	assert.ErrorIs(t, err, ErrFriendRequestNotFound)

	// Responding twice fails; the request is no longer pending.
	_, err = svc.RespondFriendRequest(ctx, req.ID, bob.ID, true)
	require.NoError(t, err)
	_, err = svc.RespondFriendRequest(ctx, req.ID, bob.ID, true)
	assert.ErrorIs(t, err, ErrFriendRequestNotFound)
}

func TestListFriendRequestsPendingOnly(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	alice := seedUser(t, st, "alice")
	bob := seedUser(t, st, "bob")
	carol := seedUser(t, st, "carol")

	reqA, err := svc.SendFriendRequest(ctx, alice.ID, carol.ID)
	require.NoError(t, err)
	_, err = svc.SendFriendRequest(ctx, bob.ID, carol.ID)
	require.NoError(t, err)

	_, err = svc.RespondFriendRequest(ctx, reqA.ID, carol.ID, true)
	require.NoError(t, err)

	reqs, err := svc.ListFriendRequests(ctx, carol.ID)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, bob.ID, reqs[0].FromID)
	require.NotNil(t, reqs[0].From)
	assert.Equal(t, "bob", reqs[0].From.Name)
}
