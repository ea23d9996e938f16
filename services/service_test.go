package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"linkup/models"
	"linkup/store"
)

const waitFor = 2 * time.Second

func newTestService(t *testing.T) (*Service, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemory()
	return New(st), st
}

func seedUser(t *testing.T, st *store.MemoryStore, name string) models.User {
	t.Helper()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Email:     name + "@example.com",
		Username:  name,
		Name:      name,
		CreatedAt: time.Now().Unix(),
	}
	require.NoError(t, st.Users().InsertOne(context.Background(), user))
	return user
}

func seedPost(t *testing.T, st *store.MemoryStore, owner models.User, content string) models.Post {
	t.Helper()
	now := time.Now().Unix()
	post := models.Post{
		ID:        primitive.NewObjectID(),
		UserID:    owner.ID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, st.Posts().InsertOne(context.Background(), post))
	return post
}

func seedLike(t *testing.T, st *store.MemoryStore, postID, userID primitive.ObjectID) {
	t.Helper()
	like := models.Like{
		ID:        primitive.NewObjectID(),
		PostID:    postID,
		UserID:    userID,
		CreatedAt: time.Now().Unix(),
	}
	require.NoError(t, st.Likes().InsertOne(context.Background(), like))
}

func notificationCount(t *testing.T, st *store.MemoryStore, receiverID primitive.ObjectID, ntype string) int64 {
	t.Helper()
	count, err := st.Notifications().Count(context.Background(), bson.M{
		"receiverId": receiverID,
		"type":       ntype,
	})
	require.NoError(t, err)
	return count
}
