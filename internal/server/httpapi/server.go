// Package httpapi exposes the authentication and task operations over
// HTTP/JSON. Handlers stay thin: bind the request, call a service, map the
// result through a single error table.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskvault/taskvault/internal/logging"
	"github.com/taskvault/taskvault/internal/server/auth"
	"github.com/taskvault/taskvault/internal/server/services"
)

// Server serves the public HTTP endpoint.
type Server struct {
	address string
	logger  logging.Logger
	auth    *services.AuthService
	tasks   *services.TaskService
	tokens  *auth.Service
}

// NewServer assembles the HTTP server over the given services.
func NewServer(address string, logger logging.Logger, authSvc *services.AuthService, taskSvc *services.TaskService, tokens *auth.Service) (*Server, error) {
	return &Server{
		address: address,
		logger:  logger.With("module", "http_server"),
		auth:    authSvc,
		tasks:   taskSvc,
		tokens:  tokens,
	}, nil
}

// Router builds the gin engine with all routes registered. Exposed for
// httptest use as well as Run.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/ping", s.handlePing)

	authGroup := router.Group("/auth")
	authGroup.POST("/signup", s.handleSignUp)
	authGroup.POST("/signin", s.handleSignIn)
	authGroup.POST("/refresh", s.handleRefresh)
	authGroup.POST("/logout", RequireAuth(s.tokens), s.handleLogout)

	taskGroup := router.Group("/tasks", RequireAuth(s.tokens))
	taskGroup.GET("", s.handleListTasks)
	taskGroup.POST("", s.handleCreateTask)
	taskGroup.GET("/:id", s.handleGetTask)
	taskGroup.PUT("/:id", s.handleUpdateTask)
	taskGroup.PATCH("/:id", s.handlePatchTask)
	taskGroup.DELETE("/:id", s.handleDeleteTask)

	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (s *Server) handlePing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
