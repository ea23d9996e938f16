package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The likes/comments fields on a post are caches maintained by separate,
// uncoordinated writes. These two functions restore them to the authoritative
// row counts and are invoked after every mutation; callers treat a failure
// here as non-fatal to the triggering action.

// SyncLikeCount recounts the likes for a post, writes the count back onto the
// post record, and returns it.
func (s *Service) SyncLikeCount(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	count, err := s.store.Likes().Count(ctx, bson.M{"postId": postID})
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}

	_, err = s.store.Posts().UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$set": bson.M{"likes": count, "updatedAt": time.Now().Unix()}},
	)
	if err != nil {
		return 0, fmt.Errorf("update post likes: %w", err)
	}
	return count, nil
}

// SyncCommentCount does the same for the comment counter.
func (s *Service) SyncCommentCount(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	count, err := s.store.Comments().Count(ctx, bson.M{"postId": postID})
	if err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}

	_, err = s.store.Posts().UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$set": bson.M{"comments": count, "updatedAt": time.Now().Unix()}},
	)
	if err != nil {
		return 0, fmt.Errorf("update post comments: %w", err)
	}
	return count, nil
}
