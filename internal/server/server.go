package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/skbarnwal/gst-invoice-service/internal/config"
	"github.com/skbarnwal/gst-invoice-service/internal/handler"
	"github.com/skbarnwal/gst-invoice-service/internal/middleware"
)

// Server is the HTTP surface the browser entry form talks to.
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	config     *config.Config
	log        zerolog.Logger
}

// New creates and configures a server instance with the invoice routes
// registered.
func New(cfg *config.Config, invoiceHandler *handler.InvoiceHandler, log zerolog.Logger) *Server {
	if cfg.Log.Format != "pretty" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CorsAllowedOrigins))
	router.Use(middleware.RequestLogger(log))

	s := &Server{
		router: router,
		config: cfg,
		log:    log,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 90 * time.Second, // render calls can be slow on Lambda cold starts
		},
	}

	s.setupRoutes()
	invoiceHandler.RegisterRoutes(router)

	return s
}

// Router returns the gin router instance.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// setupRoutes configures the non-invoice routes.
func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	// API documentation endpoints
	// Access the Swagger UI at http://localhost:8080/api-docs/index.html
	swaggerHandler := ginSwagger.WrapHandler(swaggerFiles.Handler)
	s.router.GET("/api-docs/*any", swaggerHandler)
	s.router.GET("/api-docs", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/api-docs/index.html")
	})
}

// Start begins listening for requests and handles graceful shutdown.
func (s *Server) Start() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		s.log.Info().Int("port", s.config.Server.Port).Msg("server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-quit
	s.log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	s.log.Info().Msg("server exited gracefully")
	return nil
}
