package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Friend request statuses.
const (
	FriendRequestPending  = "pending"
	FriendRequestAccepted = "accepted"
	FriendRequestDeclined = "declined"
)

type FriendRequest struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FromID      primitive.ObjectID `bson:"fromId" json:"fromId"`
	ToID        primitive.ObjectID `bson:"toId" json:"toId"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   int64              `bson:"createdAt" json:"createdAt"`
	RespondedAt int64              `bson:"respondedAt,omitempty" json:"respondedAt,omitempty"`
	From        *User              `bson:"-" json:"from,omitempty"` // Populated in response only
}
