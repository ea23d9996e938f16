package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"linkup/models"
	"linkup/store"
)

// CreateUser inserts a new account. The unique email index reports an
// address already in use.
func (s *Service) CreateUser(ctx context.Context, user models.User) error {
	err := s.store.Users().InsertOne(ctx, user)
	if errors.Is(err, store.ErrDuplicateKey) {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.store.Users().FindOne(ctx, bson.M{"email": email}, &user); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	return &user, nil
}

func (s *Service) GetUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := s.store.Users().FindOne(ctx, bson.M{"_id": userID}, &user); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	user.Avatar = ResolveMediaURL(user.Avatar)
	return &user, nil
}

// UpdateProfile applies the given profile fields and refreshes lastSeen.
func (s *Service) UpdateProfile(ctx context.Context, userID primitive.ObjectID, fields bson.M) error {
	fields["lastSeen"] = time.Now().Unix()
	matched, err := s.store.Users().UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": fields},
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if matched == 0 {
		return ErrUserNotFound
	}
	return nil
}
