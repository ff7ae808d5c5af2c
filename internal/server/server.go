package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"teamdesk/internal/config"
	"teamdesk/internal/handler"
	"teamdesk/internal/middleware"
	"teamdesk/internal/services"
	"teamdesk/internal/transport/httpdto"
	"teamdesk/internal/websocket"
	"teamdesk/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
}

type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Chat         *handler.ChatHandler
	Task         *handler.TaskHandler
	Notification *handler.NotificationHandler
	Onboarding   *handler.OnboardingHandler
	Upload       *handler.UploadHandler
	WS           *websocket.Handler
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.Server.Environment == "test" {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
			Handler: engine,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

func (s *Server) SetupRoutes(handlers *Handlers, authService *services.AuthService) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.CORSMiddleware())
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	auth := s.engine.Group("/v1/auth")
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/activate", handlers.Auth.Activate)
		auth.POST("/resend-activation", handlers.Auth.ResendActivation)
	}

	authed := s.engine.Group("/v1", middleware.AuthMiddleware(authService))
	{
		authed.GET("/users/me", handlers.User.Me)
		authed.GET("/users", handlers.User.ListDirectory)
		authed.POST("/users/online-status", handlers.User.SetOnlineStatus)
		authed.PATCH("/users/:id/status", handlers.User.SetProfileStatus)

		authed.GET("/conversations", handlers.Chat.ListConversations)
		authed.POST("/conversations/direct", handlers.Chat.CreateDirect)
		authed.POST("/conversations/group", handlers.Chat.CreateGroup)
		authed.GET("/conversations/:id/messages", handlers.Chat.ListMessages)
		authed.POST("/conversations/:id/read", handlers.Chat.MarkRead)
		authed.POST("/messages", handlers.Chat.SendMessage)
		authed.POST("/messages/file", handlers.Chat.SendFileMessage)
		authed.PATCH("/messages/:id", handlers.Chat.EditMessage)
		authed.DELETE("/messages/:id", handlers.Chat.DeleteMessage)

		authed.POST("/tasks", handlers.Task.Create)
		authed.GET("/tasks", handlers.Task.List)
		authed.GET("/tasks/stats", handlers.Task.Stats)
		authed.GET("/tasks/:id", handlers.Task.Get)
		authed.PATCH("/tasks/:id", handlers.Task.Update)
		authed.DELETE("/tasks/:id", handlers.Task.Delete)

		authed.GET("/notifications", handlers.Notification.List)
		authed.GET("/notifications/unread-count", handlers.Notification.UnreadCount)
		authed.POST("/notifications/:id/read", handlers.Notification.MarkRead)
		authed.POST("/notifications/read-all", handlers.Notification.MarkAllRead)

		authed.POST("/onboarding/start", handlers.Onboarding.Start)
		authed.GET("/onboarding", handlers.Onboarding.Status)
		authed.POST("/onboarding/step", handlers.Onboarding.UpdateStep)
		authed.GET("/onboarding/recommendation", handlers.Onboarding.Recommendation)

		authed.POST("/uploads", handlers.Upload.CreateTarget)
	}

	// Token is carried in the query string for the websocket upgrade.
	s.engine.GET("/v1/ws", handlers.WS.Connect)
}

func (s *Server) Start() error {
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.Server.Port)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Errorf("Error in starting the server: %s", err)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	if s.logger != nil {
		s.logger.Infof("Server is running on :%s", s.config.Server.Port)
	}

	<-quit

	if s.logger != nil {
		s.logger.Infof("Quitting signal received.. Shutting down after 5 seconds")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		if s.logger != nil {
			s.logger.Infof("Error in the graceful shutdown of the server: %s", err)
		}
		return err
	}

	if s.logger != nil {
		s.logger.Infof("Server stopped gracefully")
	}

	return nil
}
