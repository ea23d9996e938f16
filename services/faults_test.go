package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"linkup/models"
	"linkup/store"
)

// failingCollection wraps a real collection and forces errors on selected
// operations, so the degraded paths the services promise can be observed.
type failingCollection struct {
	store.Collection
	countErr  func(filter bson.M) error
	updateErr error
}

func (c *failingCollection) Count(ctx context.Context, filter bson.M) (int64, error) {
	if c.countErr != nil {
		if err := c.countErr(filter); err != nil {
			return 0, err
		}
	}
	return c.Collection.Count(ctx, filter)
}

func (c *failingCollection) UpdateOne(ctx context.Context, filter, update bson.M) (int64, error) {
	if c.updateErr != nil {
		return 0, c.updateErr
	}
	return c.Collection.UpdateOne(ctx, filter, update)
}

// failingStore delegates to a MemoryStore, swapping in failing collections
// where a test sets them.
type failingStore struct {
	*store.MemoryStore
	posts         store.Collection
	notifications store.Collection
}

func (s *failingStore) Posts() store.Collection {
	if s.posts != nil {
		return s.posts
	}
	return s.MemoryStore.Posts()
}

func (s *failingStore) Notifications() store.Collection {
	if s.notifications != nil {
		return s.notifications
	}
	return s.MemoryStore.Notifications()
}

func TestUnreadCountRecountsWhenFilteredCountFails(t *testing.T) {
	mem := store.NewMemory()
	fs := &failingStore{MemoryStore: mem}
	fs.notifications = &failingCollection{
		Collection: mem.Notifications(),
		countErr: func(filter bson.M) error {
			if _, ok := filter["isRead"]; ok {
				return errors.New("count failed")
			}
			return nil
		},
	}
	svc := New(fs)
	ctx := context.Background()

	sender := seedUser(t, mem, "sender")
	receiver := seedUser(t, mem, "receiver")

	for i := 0; i < 3; i++ {
		n := models.Notification{
			SenderID:   sender.ID,
			ReceiverID: receiver.ID,
			Type:       models.NotificationLike,
			Title:      "t",
		}
		require.NoError(t, mem.Notifications().InsertOne(ctx, n))
	}
	var first models.Notification
	require.NoError(t, mem.Notifications().FindOne(ctx, bson.M{"receiverId": receiver.ID}, &first))
	require.NoError(t, svc.MarkRead(ctx, first.ID, receiver.ID))

	// The read-filtered count fails, so the badge falls back to counting
	// everything addressed to the receiver, read or not.
	count, err := svc.UnreadCount(ctx, receiver.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestToggleLikeKeepsTentativeCountWhenSyncFails(t *testing.T) {
	mem := store.NewMemory()
	fs := &failingStore{MemoryStore: mem}
	svc := New(fs)
	ctx := context.Background()

	owner := seedUser(t, mem, "owner")
	viewer := seedUser(t, mem, "viewer")
	post := seedPost(t, mem, owner, "hello")

	// Drift the cached counter, then make the reconcile write fail.
	_, err := mem.Posts().UpdateOne(ctx, bson.M{"_id": post.ID}, bson.M{"$set": bson.M{"likes": int64(5)}})
	require.NoError(t, err)
	fs.posts = &failingCollection{
		Collection: mem.Posts(),
		updateErr:  errors.New("update failed"),
	}

	liked, count, err := svc.ToggleLike(ctx, viewer.ID, post.ID, viewer.Name)
	require.NoError(t, err)
	assert.True(t, liked)
	// One like row exists, but the failed reconcile leaves the caller with
	// the cached value plus one.
	assert.Equal(t, int64(6), count)

	rows, err := mem.Likes().Count(ctx, bson.M{"postId": post.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)
}

func TestSyncLikeCountIdempotent(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	owner := seedUser(t, st, "owner")
	post := seedPost(t, st, owner, "hello")
	seedLike(t, st, post.ID, seedUser(t, st, "a").ID)
	seedLike(t, st, post.ID, seedUser(t, st, "b").ID)

	first, err := svc.SyncLikeCount(ctx, post.ID)
	require.NoError(t, err)
	second, err := svc.SyncLikeCount(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(2), second)
}
