package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"

	"feedboard/graph"
	"feedboard/handlers"
	"feedboard/middleware"
	"feedboard/services"
)

type Deps struct {
	Auth      *services.AuthService
	AuthH     *handlers.AuthHandler
	FeedH     *handlers.FeedHandler
	Schema    graphql.Schema
	UploadDir string
}

func SetupRouter(d Deps) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:5500", "http://127.0.0.1:5500"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Uploaded images are served statically under the same relative paths
	// stored on the post documents.
	router.Static("/"+d.UploadDir, "./"+d.UploadDir)

	limiter := middleware.NewIPRateLimiter(60, time.Minute)

	auth := router.Group("/auth")
	auth.Use(middleware.RateLimit(limiter))
	auth.POST("/signup", d.AuthH.Signup)
	auth.POST("/login", d.AuthH.Login)

	authed := auth.Group("")
	authed.Use(middleware.RequireAuth(d.Auth))
	authed.GET("/status", d.AuthH.GetStatus)
	authed.PATCH("/status", d.AuthH.UpdateStatus)

	feed := router.Group("/feed")
	feed.Use(middleware.RequireAuth(d.Auth))
	feed.GET("/posts", d.FeedH.GetPosts)
	feed.POST("/posts", d.FeedH.CreatePost)
	feed.GET("/posts/:postId", d.FeedH.GetPost)
	feed.PUT("/posts/:postId", d.FeedH.UpdatePost)
	feed.DELETE("/posts/:postId", d.FeedH.DeletePost)

	router.PUT("/post-image", middleware.RequireAuth(d.Auth), d.FeedH.UploadImage)

	// The typed-query surface carries signup/login itself, so auth is
	// resolved per field instead of per route.
	router.POST("/graphql", middleware.OptionalAuth(d.Auth), graph.Handler(d.Schema))

	return router
}
