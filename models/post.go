package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Post struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content" json:"content"`
	ImageRef  string             `bson:"imageRef" json:"imageUrl"`
	CreatorID primitive.ObjectID `bson:"creator" json:"creatorId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`

	// Creator is populated in responses only, never stored on the document.
	Creator *CreatorSummary `bson:"creatorDoc,omitempty" json:"creator,omitempty"`
}
