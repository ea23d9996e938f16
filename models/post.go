package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Post struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Content   string             `bson:"content" json:"content"`
	Media     []string           `bson:"media" json:"media"`
	Likes     int64              `bson:"likes" json:"likes"`    // denormalized, repaired by SyncLikeCount
	Comments  int64              `bson:"comments" json:"comments"` // denormalized, repaired by SyncCommentCount
	Shares    int64              `bson:"shares" json:"shares"`
	CreatedAt int64              `bson:"createdAt" json:"createdAt"`
	UpdatedAt int64              `bson:"updatedAt" json:"updatedAt"`
	User      *User              `bson:"-" json:"user,omitempty"` // Populated in response only
	Liked     bool               `bson:"-" json:"liked"`          // Whether the viewer likes this post
}
