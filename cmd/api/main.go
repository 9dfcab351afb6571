package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/social-feed/backend/internal/auth"
	"github.com/emilythestrangee/social-feed/backend/internal/config"
	"github.com/emilythestrangee/social-feed/backend/internal/database"
	"github.com/emilythestrangee/social-feed/backend/internal/handlers"
	"github.com/emilythestrangee/social-feed/backend/internal/interactions"
	"github.com/emilythestrangee/social-feed/backend/internal/posts"
	"github.com/emilythestrangee/social-feed/backend/internal/server"
	"github.com/emilythestrangee/social-feed/backend/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()
	if err := db.Migrate(); err != nil {
		log.Fatalf("%v", err)
	}

	blobs, err := storage.NewLocal(cfg.Upload.Dir, cfg.Upload.PublicURL, cfg.Upload.MaxBytes)
	if err != nil {
		log.Fatalf("Failed to initialize uploads: %v", err)
	}

	deps := handlers.Deps{
		Store:  db,
		Posts:  posts.NewService(db, blobs),
		Engine: interactions.NewEngine(db),
	}

	var provider auth.Provider
	switch cfg.Auth.Provider {
	case config.AuthProviderRemote:
		provider = auth.NewRemoteProvider(cfg.Auth.RemoteURL, cfg.Auth.RemoteAPIKey, nil)
		log.Printf("🔐 Validating tokens with %s", cfg.Auth.RemoteURL)
	default:
		jwt, err := auth.NewJWTProvider(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.JWTTTL)
		if err != nil {
			log.Fatalf("Failed to initialize auth: %v", err)
		}
		provider = jwt
		deps.Issuer = jwt
	}

	srv := server.New(cfg, db, handlers.NewHandler(deps), auth.NewGuard(provider)).HTTPServer()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
