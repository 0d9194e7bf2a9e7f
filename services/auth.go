package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"feedboard/apperr"
	"feedboard/models"
	"feedboard/store"
)

const bcryptCost = 12

// AuthService covers registration, credential verification and token
// issuance for both API surfaces.
type AuthService struct {
	users  store.UserStore
	tokens *TokenManager
}

func NewAuthService(users store.UserStore, tokens *TokenManager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates a new account with an empty status and post set. The raw
// password is hashed and never stored.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (primitive.ObjectID, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)

	if _, err := mail.ParseAddress(email); err != nil {
		return primitive.NilObjectID, apperr.Validation("email is invalid")
	}
	if name == "" {
		return primitive.NilObjectID, apperr.Validation("name must not be empty")
	}
	if len(password) < 5 {
		return primitive.NilObjectID, apperr.Validation("password must be at least 5 characters long")
	}

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return primitive.NilObjectID, apperr.Conflict("email already registered")
	}
	if !errors.Is(err, store.ErrNotFound) {
		return primitive.NilObjectID, apperr.Internal("lookup user by email", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return primitive.NilObjectID, apperr.Internal("hash password", err)
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Status:       "",
		Posts:        []primitive.ObjectID{},
	}

	id, err := s.users.Insert(ctx, user)
	if errors.Is(err, store.ErrDuplicate) {
		// Lost the race against a concurrent signup with the same email.
		return primitive.NilObjectID, apperr.Conflict("email already registered")
	}
	if err != nil {
		return primitive.NilObjectID, apperr.Internal("insert user", err)
	}
	return id, nil
}

// Authenticate checks the credentials and issues a signed token bound to
// {userId, email}.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (token string, userID primitive.ObjectID, err error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, store.ErrNotFound) {
		return "", primitive.NilObjectID, apperr.NotFound("no user found with that email")
	}
	if err != nil {
		return "", primitive.NilObjectID, apperr.Internal("lookup user by email", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", primitive.NilObjectID, apperr.Unauthenticated("invalid email or password")
	}

	token, err = s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", primitive.NilObjectID, apperr.Internal("issue token", err)
	}
	return token, user.ID, nil
}

// Verify resolves a bearer token to the identity it asserts.
func (s *AuthService) Verify(tokenString string) (Identity, error) {
	return s.tokens.Verify(tokenString)
}
