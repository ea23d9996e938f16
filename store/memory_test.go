package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type likeDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	PostID    primitive.ObjectID `bson:"postId"`
	UserID    primitive.ObjectID `bson:"userId"`
	CreatedAt int64              `bson:"createdAt"`
}

func TestMemoryUniqueIndexOnLikes(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()

	post := primitive.NewObjectID()
	user := primitive.NewObjectID()

	require.NoError(t, st.Likes().InsertOne(ctx, likeDoc{PostID: post, UserID: user}))

	err := st.Likes().InsertOne(ctx, likeDoc{PostID: post, UserID: user})
	assert.ErrorIs(t, err, ErrDuplicateKey)

	// Another user on the same post is fine.
	assert.NoError(t, st.Likes().InsertOne(ctx, likeDoc{PostID: post, UserID: primitive.NewObjectID()}))
	// Same user on another post is fine.
	assert.NoError(t, st.Likes().InsertOne(ctx, likeDoc{PostID: primitive.NewObjectID(), UserID: user}))
}

func TestMemoryFindOneNotFound(t *testing.T) {
	st := NewMemory()

	var out likeDoc
	err := st.Likes().FindOne(context.Background(), bson.M{"userId": primitive.NewObjectID()}, &out)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryFilterOperators(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()
	coll := st.Posts()

	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	c := primitive.NewObjectID()
	require.NoError(t, coll.InsertOne(ctx, bson.M{"_id": a, "owner": "alice", "score": int64(1)}))
	require.NoError(t, coll.InsertOne(ctx, bson.M{"_id": b, "owner": "bob", "score": int64(2)}))
	require.NoError(t, coll.InsertOne(ctx, bson.M{"_id": c, "owner": "carol", "score": int64(3)}))

	count, err := coll.Count(ctx, bson.M{"owner": bson.M{"$ne": "alice"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = coll.Count(ctx, bson.M{"_id": bson.M{"$in": []primitive.ObjectID{a, c}}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = coll.Count(ctx, bson.M{"missing": bson.M{"$exists": false}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	// An absent field is not equal to true, so $ne true matches it.
	count, err = coll.Count(ctx, bson.M{"isRead": bson.M{"$ne": true}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestMemoryDottedPathFilter(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()
	coll := st.Notifications()

	post := primitive.NewObjectID()
	require.NoError(t, coll.InsertOne(ctx, bson.M{"type": "like", "data": bson.M{"postId": post}}))
	require.NoError(t, coll.InsertOne(ctx, bson.M{"type": "like", "data": bson.M{"postId": primitive.NewObjectID()}}))

	n, err := coll.DeleteMany(ctx, bson.M{"type": "like", "data.postId": post})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	count, err := coll.Count(ctx, bson.M{"type": "like"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMemoryUpdateSetAndInc(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()
	coll := st.Posts()

	id := primitive.NewObjectID()
	require.NoError(t, coll.InsertOne(ctx, bson.M{"_id": id, "likes": int64(1), "shares": int64(0)}))

	matched, err := coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"likes": int64(5)},
		"$inc": bson.M{"shares": int64(1)},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)

	var doc bson.M
	require.NoError(t, coll.FindOne(ctx, bson.M{"_id": id}, &doc))
	assert.EqualValues(t, 5, asInt64(doc["likes"]))
	assert.EqualValues(t, 1, asInt64(doc["shares"]))

	matched, err = coll.UpdateOne(ctx, bson.M{"_id": primitive.NewObjectID()}, bson.M{"$set": bson.M{"likes": int64(9)}})
	require.NoError(t, err)
	assert.Equal(t, int64(0), matched)
}

func TestMemorySortAndLimit(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()
	coll := st.Posts()

	for i := int64(1); i <= 5; i++ {
		require.NoError(t, coll.InsertOne(ctx, bson.M{"createdAt": i}))
	}

	var docs []bson.M
	opts := &FindOptions{SortField: "createdAt", SortDesc: true, Limit: 3}
	require.NoError(t, coll.Find(ctx, bson.M{}, &docs, opts))
	require.Len(t, docs, 3)
	assert.EqualValues(t, 5, asInt64(docs[0]["createdAt"]))
	assert.EqualValues(t, 3, asInt64(docs[2]["createdAt"]))
}

func TestMemoryUpsert(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()
	coll := st.PushSubscriptions()

	user := primitive.NewObjectID()
	require.NoError(t, coll.UpsertOne(ctx, bson.M{"userId": user}, bson.M{"$set": bson.M{"endpoint": "a"}}))
	require.NoError(t, coll.UpsertOne(ctx, bson.M{"userId": user}, bson.M{"$set": bson.M{"endpoint": "b"}}))

	count, err := coll.Count(ctx, bson.M{"userId": user})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	var doc bson.M
	require.NoError(t, coll.FindOne(ctx, bson.M{"userId": user}, &doc))
	assert.Equal(t, "b", doc["endpoint"])
}

func TestMemoryDeleteOne(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()
	coll := st.Comments()

	post := primitive.NewObjectID()
	require.NoError(t, coll.InsertOne(ctx, bson.M{"postId": post}))
	require.NoError(t, coll.InsertOne(ctx, bson.M{"postId": post}))

	n, err := coll.DeleteOne(ctx, bson.M{"postId": post})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	count, err := coll.Count(ctx, bson.M{"postId": post})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
