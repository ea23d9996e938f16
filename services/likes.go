package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"linkup/models"
	"linkup/store"
)

// ToggleLike flips the like state of (user, post) and returns the resulting
// state with an authoritative count.
//
// The insert itself decides the branch: the unique (postId, userId) index
// makes a duplicate-key error the "already liked" signal, so two rapid
// toggles cannot both insert. After the marker write the cached counter is
// reconciled against the row count; if reconciliation fails the toggle still
// succeeds with a count derived from the post's cached value. The
// notification side effect never blocks the result.
func (s *Service) ToggleLike(ctx context.Context, userID, postID primitive.ObjectID, actorName string) (bool, int64, error) {
	var post models.Post
	if err := s.store.Posts().FindOne(ctx, bson.M{"_id": postID}, &post); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, 0, ErrPostNotFound
		}
		return false, 0, fmt.Errorf("fetch post: %w", err)
	}

	like := models.Like{
		ID:        primitive.NewObjectID(),
		PostID:    postID,
		UserID:    userID,
		CreatedAt: time.Now().Unix(),
	}

	var liked bool
	var tentative int64

	err := s.store.Likes().InsertOne(ctx, like)
	switch {
	case err == nil:
		liked = true
		tentative = post.Likes + 1
	case errors.Is(err, store.ErrDuplicateKey):
		// Already liked: this toggle is an unlike.
		if _, derr := s.store.Likes().DeleteOne(ctx, bson.M{"postId": postID, "userId": userID}); derr != nil {
			return false, 0, fmt.Errorf("delete like: %w", derr)
		}
		liked = false
		tentative = post.Likes - 1
		if tentative < 0 {
			tentative = 0
		}
	default:
		return false, 0, fmt.Errorf("insert like: %w", err)
	}

	count, err := s.SyncLikeCount(ctx, postID)
	if err != nil {
		log.Printf("[ToggleLike] like count sync failed for post %s: %v", postID.Hex(), err)
		count = tentative
	}

	if liked {
		if actorName == "" {
			actorName = "Someone"
		}
		s.notifyAsync(userID, post.UserID, models.NotificationLike,
			actorName+" liked your post", bson.M{"postId": postID})
	} else {
		go func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("Panic in like notification cleanup: %v", r)
				}
			}()

			cctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			s.DeleteLikeNotification(cctx, userID, post.UserID, postID)
		}()
	}

	return liked, count, nil
}

// HasLiked reports whether the user currently likes the post.
func (s *Service) HasLiked(ctx context.Context, userID, postID primitive.ObjectID) (bool, error) {
	count, err := s.store.Likes().Count(ctx, bson.M{"postId": postID, "userId": userID})
	if err != nil {
		return false, fmt.Errorf("count like: %w", err)
	}
	return count > 0, nil
}
