package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Like is one user's like on one post. The likes collection carries a unique
// compound index on (postId, userId), so a duplicate insert is the
// authoritative "already liked" signal.
type Like struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PostID    primitive.ObjectID `bson:"postId" json:"postId"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	CreatedAt int64              `bson:"createdAt" json:"createdAt"`
}
