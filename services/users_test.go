package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"linkup/models"
)

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user := models.User{
		ID:        primitive.NewObjectID(),
		Email:     "taken@example.com",
		Name:      "First",
		CreatedAt: time.Now().Unix(),
	}
	require.NoError(t, svc.CreateUser(ctx, user))

	dup := models.User{
		ID:        primitive.NewObjectID(),
		Email:     "taken@example.com",
		Name:      "Second",
		CreatedAt: time.Now().Unix(),
	}
	err := svc.CreateUser(ctx, dup)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestGetUserResolvesAvatar(t *testing.T) {
	svc, st := newTestService(t)
	user := seedUser(t, st, "plain")

	got, err := svc.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, FallbackAvatar, got.Avatar)

	_, err = svc.GetUser(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	user := seedUser(t, st, "old")
	require.NoError(t, svc.UpdateProfile(ctx, user.ID, bson.M{"name": "New Name", "bio": "hi"}))

	var fresh models.User
	require.NoError(t, st.Users().FindOne(ctx, bson.M{"_id": user.ID}, &fresh))
	assert.Equal(t, "New Name", fresh.Name)
	assert.Equal(t, "hi", fresh.Bio)
	assert.NotZero(t, fresh.LastSeen)

	err := svc.UpdateProfile(ctx, primitive.NewObjectID(), bson.M{"name": "x"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
