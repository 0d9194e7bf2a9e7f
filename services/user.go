package services

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"feedboard/apperr"
	"feedboard/models"
	"feedboard/store"
)

// UserService owns status reads/writes and the user's owned-post
// back-references. The back-reference mutations are only ever called by
// PostService.
type UserService struct {
	users store.UserStore
}

func NewUserService(users store.UserStore) *UserService {
	return &UserService{users: users}
}

func (s *UserService) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal("lookup user", err)
	}
	return user, nil
}

func (s *UserService) GetStatus(ctx context.Context, id primitive.ObjectID) (string, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return user.Status, nil
}

func (s *UserService) SetStatus(ctx context.Context, id primitive.ObjectID, status string) (string, error) {
	if strings.TrimSpace(status) == "" {
		return "", apperr.Validation("status must not be empty")
	}

	err := s.users.SetStatus(ctx, id, status)
	if errors.Is(err, store.ErrNotFound) {
		return "", apperr.NotFound("user not found")
	}
	if err != nil {
		return "", apperr.Internal("set status", err)
	}
	return status, nil
}

func (s *UserService) AddPostRef(ctx context.Context, userID, postID primitive.ObjectID) error {
	if err := s.users.AddPostRef(ctx, userID, postID); err != nil {
		return apperr.Internal("add post reference", err)
	}
	return nil
}

func (s *UserService) RemovePostRef(ctx context.Context, userID, postID primitive.ObjectID) error {
	if err := s.users.RemovePostRef(ctx, userID, postID); err != nil {
		return apperr.Internal("remove post reference", err)
	}
	return nil
}
