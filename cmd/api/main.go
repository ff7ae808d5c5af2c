package main

import (
	"context"
	"log"
	"time"

	"teamdesk/internal/config"
	"teamdesk/internal/handler"
	"teamdesk/internal/proxy"
	tdredis "teamdesk/internal/redis"
	"teamdesk/internal/repository"
	"teamdesk/internal/server"
	"teamdesk/internal/services"
	"teamdesk/internal/storage"
	"teamdesk/internal/websocket"
	"teamdesk/pkg/database"
	"teamdesk/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	l := logger.New(cfg.Server.Environment)

	db, err := database.Connect(cfg)
	if err != nil {
		l.Errorf("Failed to connect to database: %v", err)
		return
	}
	if err := database.Migrate(db); err != nil {
		l.Errorf("Failed to apply migrations: %v", err)
		return
	}

	redisClient := tdredis.NewClient(cfg.Redis)
	publisher := tdredis.NewPublisher(redisClient)
	subscriber := tdredis.NewSubscriber(redisClient)
	presence := tdredis.NewPresenceStore(redisClient, 5*time.Minute)

	ctx := context.Background()
	var blobs *storage.Client
	if cfg.S3.Bucket != "" {
		blobs, err = storage.NewClient(ctx, storage.Config{
			Region:     cfg.S3.Region,
			Bucket:     cfg.S3.Bucket,
			AccessKey:  cfg.S3.AccessKey,
			SecretKey:  cfg.S3.SecretKey,
			Endpoint:   cfg.S3.Endpoint,
			PublicBase: cfg.S3.PublicBase,
			PresignTTL: cfg.S3.PresignTTL,
		})
		if err != nil {
			l.Errorf("Failed to initialize blob storage: %v", err)
			return
		}
	} else {
		l.Warnf("Blob storage not configured; file messages will have no URLs")
	}

	store := repository.NewStore(db)
	access := proxy.NewAccessControl(store.Conversations, store.Users)

	mailer := services.NewLogMailer(l)
	activationService := services.NewActivationService(store, cfg.Email, mailer, l)
	authService := services.NewAuthService(store, cfg.Auth, activationService, l)
	userService := services.NewUserService(store, presence, l)
	notifier := services.NewRedisNotifier(publisher)
	notificationService := services.NewNotificationService(store, notifier, l)
	taskService := services.NewTaskService(store, notificationService, l)
	onboardingService := services.NewOnboardingService(store, l)
	uploadService := services.NewUploadService(blobs)

	var files services.FileURLResolver
	if blobs != nil {
		files = blobs
	}
	chatService := services.NewChatService(store, access, files, publisher, presence, l)

	hub := websocket.NewHub()
	bridge := websocket.NewBridge(subscriber, hub)
	go func() {
		if err := bridge.Run(ctx); err != nil && err != context.Canceled {
			l.Errorf("websocket bridge stopped: %v", err)
		}
	}()

	handlers := &server.Handlers{
		Auth:         handler.NewAuthHandler(authService, activationService),
		User:         handler.NewUserHandler(userService),
		Chat:         handler.NewChatHandler(chatService),
		Task:         handler.NewTaskHandler(taskService),
		Notification: handler.NewNotificationHandler(notificationService),
		Onboarding:   handler.NewOnboardingHandler(onboardingService),
		Upload:       handler.NewUploadHandler(uploadService),
		WS:           websocket.NewHandler(authService, access, hub),
	}

	srv := server.New(cfg, l)
	srv.SetupRoutes(handlers, authService)
	if err := srv.Start(); err != nil {
		l.Errorf("Server exited with error: %v", err)
	}
}
