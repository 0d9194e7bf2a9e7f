package handlers

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"feedboard/apperr"
	"feedboard/middleware"
)

// respondError is the single kind→status mapping for the REST surface.
func respondError(c *gin.Context, err error) {
	if apperr.KindOf(err) == apperr.KindInternal {
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(apperr.StatusOf(err), gin.H{"message": apperr.Message(err)})
}

// actorID reads the authenticated user id set by the auth middleware.
func actorID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString(middleware.CtxUserID))
	if err != nil {
		c.JSON(401, gin.H{"message": "invalid user id in token"})
		return primitive.NilObjectID, false
	}
	return id, true
}
