package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"linkup/models"
	"linkup/store"
)

// SendFriendRequest creates a pending request from one user to another and
// notifies the recipient asynchronously. Duplicate pending requests (either
// direction) and existing friendships are rejected.
func (s *Service) SendFriendRequest(ctx context.Context, fromID, toID primitive.ObjectID) (*models.FriendRequest, error) {
	if fromID == toID {
		return nil, ErrSelfFriendRequest
	}

	if _, err := s.GetUser(ctx, toID); err != nil {
		return nil, err
	}

	pending, err := s.pairCount(ctx, fromID, toID, models.FriendRequestPending)
	if err != nil {
		return nil, err
	}
	if pending > 0 {
		return nil, ErrFriendRequestExists
	}

	accepted, err := s.pairCount(ctx, fromID, toID, models.FriendRequestAccepted)
	if err != nil {
		return nil, err
	}
	if accepted > 0 {
		return nil, ErrAlreadyFriends
	}

	req := models.FriendRequest{
		ID:        primitive.NewObjectID(),
		FromID:    fromID,
		ToID:      toID,
		Status:    models.FriendRequestPending,
		CreatedAt: time.Now().Unix(),
	}
	if err := s.store.FriendRequests().InsertOne(ctx, req); err != nil {
		return nil, fmt.Errorf("insert friend request: %w", err)
	}

	sender, err := s.GetUser(ctx, fromID)
	name := "Someone"
	if err == nil && sender.Name != "" {
		name = sender.Name
	}
	s.notifyAsync(fromID, toID, models.NotificationFriendRequest,
		name+" sent you a friend request", bson.M{"requestId": req.ID})

	return &req, nil
}

// pairCount counts requests between two users in either direction with the
// given status.
func (s *Service) pairCount(ctx context.Context, a, b primitive.ObjectID, status string) (int64, error) {
	forward, err := s.store.FriendRequests().Count(ctx, bson.M{"fromId": a, "toId": b, "status": status})
	if err != nil {
		return 0, fmt.Errorf("count friend requests: %w", err)
	}
	backward, err := s.store.FriendRequests().Count(ctx, bson.M{"fromId": b, "toId": a, "status": status})
	if err != nil {
		return 0, fmt.Errorf("count friend requests: %w", err)
	}
	return forward + backward, nil
}

// RespondFriendRequest accepts or declines a pending request addressed to
// the user. On accept the requester gets notified.
func (s *Service) RespondFriendRequest(ctx context.Context, requestID, userID primitive.ObjectID, accept bool) (*models.FriendRequest, error) {
	filter := bson.M{"_id": requestID, "toId": userID, "status": models.FriendRequestPending}

	var req models.FriendRequest
	if err := s.store.FriendRequests().FindOne(ctx, filter, &req); err != nil {
		return nil, ErrFriendRequestNotFound
	}

	status := models.FriendRequestDeclined
	if accept {
		status = models.FriendRequestAccepted
	}
	now := time.Now().Unix()

	matched, err := s.store.FriendRequests().UpdateOne(ctx, filter,
		bson.M{"$set": bson.M{"status": status, "respondedAt": now}})
	if err != nil {
		return nil, fmt.Errorf("update friend request: %w", err)
	}
	if matched == 0 {
		return nil, ErrFriendRequestNotFound
	}
	req.Status = status
	req.RespondedAt = now

	if accept {
		responder, err := s.GetUser(ctx, userID)
		name := "Someone"
		if err == nil && responder.Name != "" {
			name = responder.Name
		}
		s.notifyAsync(userID, req.FromID, models.NotificationOther,
			name+" accepted your friend request", bson.M{"requestId": req.ID})
	}

	return &req, nil
}

// ListFriendRequests returns the pending requests addressed to a user with
// senders hydrated.
func (s *Service) ListFriendRequests(ctx context.Context, userID primitive.ObjectID) ([]models.FriendRequest, error) {
	var reqs []models.FriendRequest
	opts := &store.FindOptions{SortField: "createdAt", SortDesc: true}
	filter := bson.M{"toId": userID, "status": models.FriendRequestPending}
	if err := s.store.FriendRequests().Find(ctx, filter, &reqs, opts); err != nil {
		return nil, fmt.Errorf("fetch friend requests: %w", err)
	}

	fromIDs := make([]primitive.ObjectID, 0, len(reqs))
	for _, r := range reqs {
		fromIDs = append(fromIDs, r.FromID)
	}
	senders, err := s.fetchUserMap(ctx, fromIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch senders: %w", err)
	}

	for i := range reqs {
		if u, ok := senders[reqs[i].FromID]; ok {
			from := u
			reqs[i].From = &from
		}
	}
	return reqs, nil
}

// ListFriends returns the users connected to userID through an accepted
// request, whichever side sent it.
func (s *Service) ListFriends(ctx context.Context, userID primitive.ObjectID) ([]models.User, error) {
	var sent, received []models.FriendRequest
	if err := s.store.FriendRequests().Find(ctx,
		bson.M{"fromId": userID, "status": models.FriendRequestAccepted}, &sent, nil); err != nil {
		return nil, fmt.Errorf("fetch friendships: %w", err)
	}
	if err := s.store.FriendRequests().Find(ctx,
		bson.M{"toId": userID, "status": models.FriendRequestAccepted}, &received, nil); err != nil {
		return nil, fmt.Errorf("fetch friendships: %w", err)
	}

	ids := make([]primitive.ObjectID, 0, len(sent)+len(received))
	for _, r := range sent {
		ids = append(ids, r.ToID)
	}
	for _, r := range received {
		ids = append(ids, r.FromID)
	}

	friendMap, err := s.fetchUserMap(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch friends: %w", err)
	}

	friends := make([]models.User, 0, len(friendMap))
	for _, id := range ids {
		if u, ok := friendMap[id]; ok {
			friends = append(friends, u)
		}
	}
	return friends, nil
}
