package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types.
const (
	NotificationFriendRequest = "friend_request"
	NotificationComment       = "comment"
	NotificationLike          = "like"
	NotificationMention       = "mention"
	NotificationOther         = "other"
)

// Notification is a stored in-app notification. Data is a structured
// sub-document (like/comment notifications carry postId there), so deletions
// can filter on data fields instead of pattern-matching a serialized blob.
type Notification struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SenderID   primitive.ObjectID `bson:"senderId" json:"senderId"`
	ReceiverID primitive.ObjectID `bson:"receiverId" json:"receiverId"`
	Type       string             `bson:"type" json:"type"`
	Title      string             `bson:"title" json:"title"`
	Data       bson.M             `bson:"data,omitempty" json:"data,omitempty"`
	IsRead     bool               `bson:"isRead" json:"isRead"`
	CreatedAt  int64              `bson:"createdAt" json:"createdAt"`
	Sender     *User              `bson:"-" json:"sender,omitempty"` // Populated in response only
}
