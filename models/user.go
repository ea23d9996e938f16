package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash *string            `bson:"passwordHash,omitempty" json:"-"`
	Username     string             `bson:"username" json:"username"`
	Name         string             `bson:"name" json:"name"`
	Avatar       string             `bson:"avatar" json:"avatar"`
	Bio          string             `bson:"bio" json:"bio"`
	Photos       []string           `bson:"photos" json:"photos"`
	Status       string             `bson:"status" json:"status"` // available, busy, offline
	LastSeen     int64              `bson:"lastSeen" json:"lastSeen"`
	CreatedAt    int64              `bson:"createdAt" json:"createdAt"`
}
