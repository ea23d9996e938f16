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

const feedLimit = 50

// CreatePost inserts a new post with zeroed counters.
func (s *Service) CreatePost(ctx context.Context, userID primitive.ObjectID, content string, media []string) (*models.Post, error) {
	if strings.TrimSpace(content) == "" && len(media) == 0 {
		return nil, ErrEmptyContent
	}

	now := time.Now().Unix()
	post := models.Post{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Content:   content,
		Media:     media,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Posts().InsertOne(ctx, post); err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return &post, nil
}

// GetPost fetches one post with its author hydrated.
func (s *Service) GetPost(ctx context.Context, postID primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	if err := s.store.Posts().FindOne(ctx, bson.M{"_id": postID}, &post); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("fetch post: %w", err)
	}
	s.hydratePosts(ctx, []*models.Post{&post})
	return &post, nil
}

// DeletePost removes a post the user owns and cascades its likes and
// comments. Like/comment notifications referencing the post stay behind as
// historical records.
func (s *Service) DeletePost(ctx context.Context, postID, userID primitive.ObjectID) error {
	filter := bson.M{"_id": postID, "userId": userID}

	deleted, err := s.store.Posts().DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if deleted == 0 {
		return ErrPostNotFound
	}

	if _, err := s.store.Likes().DeleteMany(ctx, bson.M{"postId": postID}); err != nil {
		log.Printf("[DeletePost] failed to cascade likes for post %s: %v", postID.Hex(), err)
	}
	if _, err := s.store.Comments().DeleteMany(ctx, bson.M{"postId": postID}); err != nil {
		log.Printf("[DeletePost] failed to cascade comments for post %s: %v", postID.Hex(), err)
	}
	return nil
}

// SharePost bumps the share counter and returns the new value.
func (s *Service) SharePost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	matched, err := s.store.Posts().UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$inc": bson.M{"shares": int64(1)}},
	)
	if err != nil {
		return 0, fmt.Errorf("increment shares: %w", err)
	}
	if matched == 0 {
		return 0, ErrPostNotFound
	}

	var post models.Post
	if err := s.store.Posts().FindOne(ctx, bson.M{"_id": postID}, &post); err != nil {
		return 0, fmt.Errorf("fetch post: %w", err)
	}
	return post.Shares, nil
}

// Feed returns other users' newest posts, authors hydrated and the viewer's
// like state flagged.
func (s *Service) Feed(ctx context.Context, viewerID primitive.ObjectID) ([]models.Post, error) {
	var posts []models.Post
	opts := &store.FindOptions{SortField: "createdAt", SortDesc: true, Limit: feedLimit}
	if err := s.store.Posts().Find(ctx, bson.M{"userId": bson.M{"$ne": viewerID}}, &posts, opts); err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	if err := s.markLiked(ctx, viewerID, posts); err != nil {
		return nil, err
	}

	refs := make([]*models.Post, len(posts))
	for i := range posts {
		refs[i] = &posts[i]
	}
	s.hydratePosts(ctx, refs)
	return posts, nil
}

// ListUserPosts returns one user's posts newest-first.
func (s *Service) ListUserPosts(ctx context.Context, userID, viewerID primitive.ObjectID) ([]models.Post, error) {
	var posts []models.Post
	opts := &store.FindOptions{SortField: "createdAt", SortDesc: true}
	if err := s.store.Posts().Find(ctx, bson.M{"userId": userID}, &posts, opts); err != nil {
		return nil, fmt.Errorf("fetch posts: %w", err)
	}
	if err := s.markLiked(ctx, viewerID, posts); err != nil {
		return nil, err
	}

	refs := make([]*models.Post, len(posts))
	for i := range posts {
		refs[i] = &posts[i]
	}
	s.hydratePosts(ctx, refs)
	return posts, nil
}

// markLiked sets the Liked flag on each post the viewer has liked.
func (s *Service) markLiked(ctx context.Context, viewerID primitive.ObjectID, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]primitive.ObjectID, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	var likes []models.Like
	filter := bson.M{"userId": viewerID, "postId": bson.M{"$in": ids}}
	if err := s.store.Likes().Find(ctx, filter, &likes, nil); err != nil {
		return fmt.Errorf("fetch viewer likes: %w", err)
	}

	liked := make(map[primitive.ObjectID]bool, len(likes))
	for _, l := range likes {
		liked[l.PostID] = true
	}
	for i := range posts {
		posts[i].Liked = liked[posts[i].ID]
	}
	return nil
}

// hydratePosts attaches author profiles. A missing author is not an error;
// the post ships without one and the handler falls back.
func (s *Service) hydratePosts(ctx context.Context, posts []*models.Post) {
	ids := make([]primitive.ObjectID, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.UserID)
	}

	users, err := s.fetchUserMap(ctx, ids)
	if err != nil {
		log.Printf("[hydratePosts] failed to fetch authors: %v", err)
		return
	}
	for _, p := range posts {
		if u, ok := users[p.UserID]; ok {
			author := u
			p.User = &author
		}
	}
}
