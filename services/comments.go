package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"linkup/models"
	"linkup/store"
)

// CreateComment persists a comment and returns it with the author hydrated.
// The comment counter is reconciled best-effort and the post owner is
// notified asynchronously, unless they authored the comment themselves.
func (s *Service) CreateComment(ctx context.Context, postID, authorID primitive.ObjectID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	var post models.Post
	if err := s.store.Posts().FindOne(ctx, bson.M{"_id": postID}, &post); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("fetch post: %w", err)
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		PostID:    postID,
		UserID:    authorID,
		Content:   content,
		CreatedAt: time.Now().Unix(),
	}
	if err := s.store.Comments().InsertOne(ctx, comment); err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}

	var author models.User
	if err := s.store.Users().FindOne(ctx, bson.M{"_id": authorID}, &author); err != nil {
		return nil, fmt.Errorf("fetch author: %w", err)
	}
	author.Avatar = ResolveMediaURL(author.Avatar)
	comment.User = &author

	if _, err := s.SyncCommentCount(ctx, postID); err != nil {
		log.Printf("[CreateComment] comment count sync failed for post %s: %v", postID.Hex(), err)
	}

	if post.UserID != authorID {
		name := author.Name
		if name == "" {
			name = "Someone"
		}
		s.notifyAsync(authorID, post.UserID, models.NotificationComment,
			name+" commented on your post", bson.M{"postId": postID, "commenter": name})
	}

	return &comment, nil
}

// DeleteComment removes a comment the requesting user owns. Ownership is the
// filter: a comment that exists but belongs to someone else reads as not
// found. Comment notifications are historical records and stay behind.
func (s *Service) DeleteComment(ctx context.Context, commentID, userID primitive.ObjectID) error {
	filter := bson.M{"_id": commentID, "userId": userID}

	var comment models.Comment
	if err := s.store.Comments().FindOne(ctx, filter, &comment); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("fetch comment: %w", err)
	}

	deleted, err := s.store.Comments().DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if deleted == 0 {
		return ErrCommentNotFound
	}

	if _, err := s.SyncCommentCount(ctx, comment.PostID); err != nil {
		log.Printf("[DeleteComment] comment count sync failed for post %s: %v", comment.PostID.Hex(), err)
	}
	return nil
}

// ListComments returns a post's comments oldest-first with authors hydrated.
func (s *Service) ListComments(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error) {
	var comments []models.Comment
	opts := &store.FindOptions{SortField: "createdAt"}
	if err := s.store.Comments().Find(ctx, bson.M{"postId": postID}, &comments, opts); err != nil {
		return nil, fmt.Errorf("fetch comments: %w", err)
	}

	authorIDs := make([]primitive.ObjectID, 0, len(comments))
	for _, c := range comments {
		authorIDs = append(authorIDs, c.UserID)
	}
	authors, err := s.fetchUserMap(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch authors: %w", err)
	}

	for i := range comments {
		if u, ok := authors[comments[i].UserID]; ok {
			author := u
			comments[i].User = &author
		}
	}
	return comments, nil
}
