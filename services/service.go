package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"linkup/models"
	"linkup/store"
)

// RealtimeFunc delivers an event to a connected user, e.g. over the
// websocket hub. May be nil.
type RealtimeFunc func(userID primitive.ObjectID, event string, payload interface{})

// Service holds the app's business logic on top of the store gateway.
// Side-effect channels (web push, realtime) are optional and wired in main.
type Service struct {
	store    store.Store
	realtime RealtimeFunc
}

func New(st store.Store) *Service {
	return &Service{store: st}
}

// SetRealtime wires the realtime delivery channel.
func (s *Service) SetRealtime(f RealtimeFunc) {
	s.realtime = f
}

// fetchUserMap loads the given users in one query, keyed by id.
func (s *Service) fetchUserMap(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	result := make(map[primitive.ObjectID]models.User)
	if len(ids) == 0 {
		return result, nil
	}

	var users []models.User
	if err := s.store.Users().Find(ctx, bsonIn("_id", ids), &users, nil); err != nil {
		return nil, err
	}
	for _, u := range users {
		u.Avatar = ResolveMediaURL(u.Avatar)
		result[u.ID] = u
	}
	return result, nil
}

func bsonIn(field string, ids []primitive.ObjectID) bson.M {
	return bson.M{field: bson.M{"$in": ids}}
}
