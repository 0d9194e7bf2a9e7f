package graph

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"feedboard/middleware"
	"feedboard/services"
)

type request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler executes queries against the schema. Authentication is optional
// at the transport level; resolvers enforce it per field, so signup and
// login work without a token. Failed operations come back as a 200 with an
// errors array whose extensions carry the same numeric code the REST
// surface would have returned.
func Handler(schema graphql.Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid graphql request body"})
			return
		}

		ctx := c.Request.Context()
		if userID, err := primitive.ObjectIDFromHex(c.GetString(middleware.CtxUserID)); err == nil {
			ctx = WithIdentity(ctx, services.Identity{
				UserID: userID,
				Email:  c.GetString(middleware.CtxEmail),
			})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			OperationName:  req.OperationName,
			VariableValues: req.Variables,
			Context:        ctx,
		})

		c.JSON(http.StatusOK, result)
	}
}
