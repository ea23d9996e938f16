package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
)

// Sentinel errors shared by all Store implementations. The mongo-backed store
// maps driver errors onto these so services never import the driver's error
// helpers.
var (
	ErrNotFound     = errors.New("store: document not found")
	ErrDuplicateKey = errors.New("store: duplicate key")
)

// FindOptions narrows a Find: sort by one field and cap the result set.
type FindOptions struct {
	SortField string
	SortDesc  bool
	Limit     int64
}

// Collection is the query surface the services use: filtered reads, writes,
// and counting over one named collection, with bson.M filters throughout.
type Collection interface {
	FindOne(ctx context.Context, filter bson.M, dest interface{}) error
	Find(ctx context.Context, filter bson.M, dest interface{}, opts *FindOptions) error
	InsertOne(ctx context.Context, doc interface{}) error
	UpdateOne(ctx context.Context, filter, update bson.M) (int64, error)
	UpdateMany(ctx context.Context, filter, update bson.M) (int64, error)
	UpsertOne(ctx context.Context, filter, update bson.M) error
	DeleteOne(ctx context.Context, filter bson.M) (int64, error)
	DeleteMany(ctx context.Context, filter bson.M) (int64, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
}

// Store hands out the app's collections.
type Store interface {
	Users() Collection
	Posts() Collection
	Comments() Collection
	Likes() Collection
	Notifications() Collection
	FriendRequests() Collection
	PushSubscriptions() Collection
}
