package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"linkup/models"
	"linkup/store"
)

// SavePushSubscription upserts the web-push subscription for a user.
func (s *Service) SavePushSubscription(ctx context.Context, userID primitive.ObjectID, sub webpush.Subscription) error {
	return s.store.PushSubscriptions().UpsertOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"userId": userID, "sub": sub}},
	)
}

// SendPushNotification delivers a web push to a user, fire-and-forget.
// Missing subscriptions and delivery failures are logged only; an expired
// subscription (410) is dropped from the store.
func (s *Service) SendPushNotification(userID primitive.ObjectID, title, body string) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Panic in push notification: %v", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var sub models.PushSubscription
		err := s.store.PushSubscriptions().FindOne(ctx, bson.M{"userId": userID}, &sub)
		if errors.Is(err, store.ErrNotFound) {
			return
		}
		if err != nil {
			log.Printf("Failed to find push subscription for user %s: %v", userID.Hex(), err)
			return
		}

		payload, err := json.Marshal(map[string]interface{}{
			"title": title,
			"body":  body,
			"data": map[string]interface{}{
				"url":       "/notifications",
				"timestamp": time.Now().Unix(),
			},
		})
		if err != nil {
			log.Printf("Failed to marshal push payload: %v", err)
			return
		}

		resp, err := webpush.SendNotification(payload, &sub.Sub, &webpush.Options{
			Subscriber:      "mailto:admin@linkup.app",
			VAPIDPrivateKey: os.Getenv("VAPID_PRIVATE_KEY"),
			VAPIDPublicKey:  os.Getenv("VAPID_PUBLIC_KEY"),
			TTL:             30,
		})
		if err != nil {
			log.Printf("Failed to send push notification to user %s: %v", userID.Hex(), err)
			if resp != nil && resp.StatusCode == 410 {
				log.Printf("Push subscription expired for user %s, deleting", userID.Hex())
				if _, delErr := s.store.PushSubscriptions().DeleteOne(ctx, bson.M{"userId": userID}); delErr != nil {
					log.Printf("Failed to delete expired subscription: %v", delErr)
				}
			}
			return
		}
		resp.Body.Close()
	}()
}
