package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"feedboard/config"
	"feedboard/database"
	"feedboard/graph"
	"feedboard/handlers"
	"feedboard/notify"
	"feedboard/routes"
	"feedboard/services"
	"feedboard/storage"
	"feedboard/store/mongostore"
)

func main() {
	log.Println("🚀 Starting Feedboard server...")

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("❌ Invalid configuration: ", err)
	}

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Println("🔌 Connecting to MongoDB...")
	var db *database.DB
	for i := 1; i <= 3; i++ {
		db, err = database.Connect(cfg.MongoURI, cfg.MongoDB)
		if err == nil {
			break
		}
		log.Printf("❌ MongoDB connection attempt %d failed: %v", i, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatal("❌ Failed to connect to MongoDB: ", err)
	}
	defer db.Disconnect()

	assets, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		log.Fatal("❌ Failed to prepare upload dir: ", err)
	}

	hub := notify.NewHub()
	go hub.Start()

	tokens := services.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	authService := services.NewAuthService(mongostore.NewUserStore(db.Users), tokens)
	userService := services.NewUserService(mongostore.NewUserStore(db.Users))
	postService := services.NewPostService(mongostore.NewPostStore(db.Posts), userService, assets, hub, cfg.PageSize)

	schema, err := graph.NewSchema(graph.NewResolver(authService, userService, postService))
	if err != nil {
		log.Fatal("❌ Failed to build graphql schema: ", err)
	}

	router := routes.SetupRouter(routes.Deps{
		Auth:      authService,
		AuthH:     handlers.NewAuthHandler(authService, userService),
		FeedH:     handlers.NewFeedHandler(postService, assets),
		Schema:    schema,
		UploadDir: cfg.UploadDir,
	})

	router.GET("/ws", func(c *gin.Context) {
		notify.ServeWS(hub, func(token string) (string, error) {
			identity, err := authService.Verify(token)
			if err != nil {
				return "", err
			}
			return identity.UserID.Hex(), nil
		})(c.Writer, c.Request)
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🌐 Server running on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Server error: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("❌ Forced shutdown: ", err)
	}

	log.Println("👋 Server stopped gracefully")
}
