package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store on top of a *mongo.Database.
type MongoStore struct {
	db *mongo.Database
}

func NewMongo(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) Users() Collection             { return &mongoCollection{s.db.Collection("users")} }
func (s *MongoStore) Posts() Collection             { return &mongoCollection{s.db.Collection("posts")} }
func (s *MongoStore) Comments() Collection          { return &mongoCollection{s.db.Collection("comments")} }
func (s *MongoStore) Likes() Collection             { return &mongoCollection{s.db.Collection("likes")} }
func (s *MongoStore) Notifications() Collection     { return &mongoCollection{s.db.Collection("notifications")} }
func (s *MongoStore) FriendRequests() Collection    { return &mongoCollection{s.db.Collection("friend_requests")} }
func (s *MongoStore) PushSubscriptions() Collection { return &mongoCollection{s.db.Collection("push_subscriptions")} }

// EnsureIndexes creates the indexes the services rely on. The unique
// (postId, userId) index on likes turns the like toggle's check-then-act into
// a single conflict-checked insert.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	likeIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "postId", Value: 1}, {Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := s.db.Collection("likes").Indexes().CreateOne(ctx, likeIdx); err != nil {
		return err
	}

	emailIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := s.db.Collection("users").Indexes().CreateOne(ctx, emailIdx); err != nil {
		return err
	}

	recvIdx := mongo.IndexModel{Keys: bson.D{{Key: "receiverId", Value: 1}, {Key: "createdAt", Value: -1}}}
	if _, err := s.db.Collection("notifications").Indexes().CreateOne(ctx, recvIdx); err != nil {
		return err
	}

	postIdx := mongo.IndexModel{Keys: bson.D{{Key: "postId", Value: 1}}}
	if _, err := s.db.Collection("comments").Indexes().CreateOne(ctx, postIdx); err != nil {
		return err
	}

	return nil
}

type mongoCollection struct {
	coll *mongo.Collection
}

func (c *mongoCollection) FindOne(ctx context.Context, filter bson.M, dest interface{}) error {
	err := c.coll.FindOne(ctx, filter).Decode(dest)
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	}
	return err
}

func (c *mongoCollection) Find(ctx context.Context, filter bson.M, dest interface{}, opts *FindOptions) error {
	findOpts := options.Find()
	if opts != nil {
		if opts.SortField != "" {
			dir := 1
			if opts.SortDesc {
				dir = -1
			}
			findOpts.SetSort(bson.D{{Key: opts.SortField, Value: dir}})
		}
		if opts.Limit > 0 {
			findOpts.SetLimit(opts.Limit)
		}
	}

	cursor, err := c.coll.Find(ctx, filter, findOpts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	return cursor.All(ctx, dest)
}

func (c *mongoCollection) InsertOne(ctx context.Context, doc interface{}) error {
	_, err := c.coll.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateKey
	}
	return err
}

func (c *mongoCollection) UpdateOne(ctx context.Context, filter, update bson.M) (int64, error) {
	res, err := c.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (c *mongoCollection) UpdateMany(ctx context.Context, filter, update bson.M) (int64, error) {
	res, err := c.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (c *mongoCollection) UpsertOne(ctx context.Context, filter, update bson.M) error {
	_, err := c.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (c *mongoCollection) DeleteOne(ctx context.Context, filter bson.M) (int64, error) {
	res, err := c.coll.DeleteOne(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (c *mongoCollection) DeleteMany(ctx context.Context, filter bson.M) (int64, error) {
	res, err := c.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (c *mongoCollection) Count(ctx context.Context, filter bson.M) (int64, error) {
	return c.coll.CountDocuments(ctx, filter)
}
