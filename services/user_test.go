package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"feedboard/apperr"
)

func TestStatusRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.registerUser(t, "Maria", "maria@example.com")

	status, err := env.users.GetStatus(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, status)

	updated, err := env.users.SetStatus(ctx, userID, "writing a post")
	require.NoError(t, err)
	assert.Equal(t, "writing a post", updated)

	status, err = env.users.GetStatus(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "writing a post", status)
}

func TestSetStatusValidation(t *testing.T) {
	env := newTestEnv(t)
	userID := env.registerUser(t, "Maria", "maria@example.com")

	_, err := env.users.SetStatus(context.Background(), userID, "   ")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestStatusUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.users.GetStatus(ctx, primitive.NewObjectID())
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = env.users.SetStatus(ctx, primitive.NewObjectID(), "hello")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestPostRefsAreIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.registerUser(t, "Maria", "maria@example.com")
	postID := primitive.NewObjectID()

	require.NoError(t, env.users.AddPostRef(ctx, userID, postID))
	require.NoError(t, env.users.AddPostRef(ctx, userID, postID))

	user, err := env.users.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{postID}, user.Posts)

	require.NoError(t, env.users.RemovePostRef(ctx, userID, postID))
	require.NoError(t, env.users.RemovePostRef(ctx, userID, postID))

	user, err = env.users.Get(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, user.Posts)
}
