package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestOwnerOnly(t *testing.T) {
	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()

	dec := OwnerOnly(owner, owner)
	assert.True(t, dec.Allowed)
	assert.Empty(t, dec.Reason)

	dec = OwnerOnly(other, owner)
	assert.False(t, dec.Allowed)
	assert.NotEmpty(t, dec.Reason)
}
