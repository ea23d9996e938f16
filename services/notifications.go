package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"linkup/models"
	"linkup/store"
)

// CreateNotification stores a notification addressed to receiver and pushes
// it out (web push + realtime). Self-notifications are skipped. Failures are
// logged and reported through the return value, never as an error: a broken
// notification must not fail the action that triggered it.
func (s *Service) CreateNotification(ctx context.Context, senderID, receiverID primitive.ObjectID, ntype, title string, data bson.M) bool {
	if senderID == receiverID {
		return false
	}

	notif := models.Notification{
		ID:         primitive.NewObjectID(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Type:       ntype,
		Title:      title,
		Data:       data,
		CreatedAt:  time.Now().Unix(),
	}

	if err := s.store.Notifications().InsertOne(ctx, notif); err != nil {
		log.Printf("[CreateNotification] insert failed: %v", err)
		return false
	}

	s.SendPushNotification(receiverID, title, "")
	if s.realtime != nil {
		s.realtime(receiverID, "notification", notif)
	}
	return true
}

// DeleteLikeNotification removes the like notification(s) a sender previously
// produced for a post. The filter is structured (sender, receiver, type,
// data.postId), so likes on other posts and likes by other users stay put.
func (s *Service) DeleteLikeNotification(ctx context.Context, senderID, receiverID, postID primitive.ObjectID) bool {
	if senderID == receiverID {
		return false
	}

	_, err := s.store.Notifications().DeleteMany(ctx, bson.M{
		"senderId":    senderID,
		"receiverId":  receiverID,
		"type":        models.NotificationLike,
		"data.postId": postID,
	})
	if err != nil {
		log.Printf("[DeleteLikeNotification] delete failed: %v", err)
		return false
	}
	return true
}

// notifyAsync schedules CreateNotification off the caller's request path.
// The caller can report success before the notification was attempted.
func (s *Service) notifyAsync(senderID, receiverID primitive.ObjectID, ntype, title string, data bson.M) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Panic in notification fan-out: %v", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		s.CreateNotification(ctx, senderID, receiverID, ntype, title, data)
	}()
}

// ListNotifications returns the newest notifications for a user with senders
// hydrated.
func (s *Service) ListNotifications(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Notification, error) {
	var notifs []models.Notification
	opts := &store.FindOptions{SortField: "createdAt", SortDesc: true, Limit: limit}
	if err := s.store.Notifications().Find(ctx, bson.M{"receiverId": userID}, &notifs, opts); err != nil {
		return nil, fmt.Errorf("fetch notifications: %w", err)
	}

	senderIDs := make([]primitive.ObjectID, 0, len(notifs))
	for _, n := range notifs {
		senderIDs = append(senderIDs, n.SenderID)
	}
	senders, err := s.fetchUserMap(ctx, senderIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch senders: %w", err)
	}

	for i := range notifs {
		if u, ok := senders[notifs[i].SenderID]; ok {
			sender := u
			notifs[i].Sender = &sender
		}
	}
	return notifs, nil
}

// UnreadCount counts unread notifications. Older documents may predate the
// isRead field, so an absent value counts as unread; if the filtered count
// fails, recount without the read filter rather than failing the badge.
func (s *Service) UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	count, err := s.store.Notifications().Count(ctx, bson.M{
		"receiverId": userID,
		"isRead":     bson.M{"$ne": true},
	})
	if err == nil {
		return count, nil
	}
	log.Printf("[UnreadCount] filtered count failed, recounting without read filter: %v", err)

	return s.store.Notifications().Count(ctx, bson.M{"receiverId": userID})
}

// MarkRead marks one notification read, scoped to its receiver.
func (s *Service) MarkRead(ctx context.Context, notifID, userID primitive.ObjectID) error {
	matched, err := s.store.Notifications().UpdateOne(ctx,
		bson.M{"_id": notifID, "receiverId": userID},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	if matched == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification for a user read and returns how
// many it touched.
func (s *Service) MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	matched, err := s.store.Notifications().UpdateMany(ctx,
		bson.M{"receiverId": userID, "isRead": bson.M{"$ne": true}},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	return matched, nil
}
