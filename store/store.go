// Package store declares the document-store contract the service layer
// consumes. Implementations only promise single-document atomicity; nothing
// in the core relies on cross-document transactions.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"feedboard/models"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate unique field")
)

type UserStore interface {
	Insert(ctx context.Context, user *models.User) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status string) error
	// AddPostRef and RemovePostRef are idempotent set mutations on the
	// user's owned-post ids.
	AddPostRef(ctx context.Context, userID, postID primitive.ObjectID) error
	RemovePostRef(ctx context.Context, userID, postID primitive.ObjectID) error
}

type PostStore interface {
	Insert(ctx context.Context, post *models.Post) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	// List returns posts ordered by createdAt descending with the creator
	// summary populated.
	List(ctx context.Context, skip, limit int64) ([]models.Post, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
