package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"

	"buzzline/internal/reactions"
	"buzzline/internal/router"
	"buzzline/internal/store"
	"buzzline/internal/stream"
	"buzzline/pkg/config"
	"buzzline/pkg/firebase"
	"buzzline/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(cfg.LogLevel, cfg.LogPath)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	// Initialize database connection
	client, err := config.InitMongo()
	if err != nil {
		log.Fatalf("Failed to initialize MongoDB: %v", err)
	}
	defer config.CloseMongo(client)

	db := client.Database(cfg.MongoDatabase)
	st := store.NewMongoStore(db)

	// Initialize Firebase
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.StorageBucket)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}
	identity, err := firebase.NewIdentityClient(ctx, cfg.FirebaseAPIKey)
	if err != nil {
		log.Fatalf("Failed to initialize identity client: %v", err)
	}
	uploader := firebase.NewImageStore(firebaseApp.Bucket, cfg.StorageBucket)

	// Start the change-reaction engine
	dispatcher := reactions.NewDispatcher(reactions.DefaultRegistry(), st, zlog)
	watcher := stream.NewWatcher(db, dispatcher, zlog)
	watchCtx, stopWatcher := context.WithCancel(ctx)
	defer stopWatcher()
	go watcher.Run(watchCtx)

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, st, firebaseApp.AuthClient, identity, uploader, cfg.StorageBucket)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
