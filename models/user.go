package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Email        string               `bson:"email" json:"email"`
	Name         string               `bson:"name" json:"name"`
	PasswordHash string               `bson:"passwordHash" json:"-"`
	Status       string               `bson:"status" json:"status"`
	Posts        []primitive.ObjectID `bson:"posts" json:"posts"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
}

// CreatorSummary is the public projection of a post's author. The password
// hash never travels with it.
type CreatorSummary struct {
	ID   primitive.ObjectID `bson:"_id" json:"_id"`
	Name string             `bson:"name" json:"name"`
}

func (u *User) Summary() CreatorSummary {
	return CreatorSummary{ID: u.ID, Name: u.Name}
}
