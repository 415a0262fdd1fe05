package server

import (
	"ctchen222/mlb-compare/internal/api/controller"
	"ctchen222/mlb-compare/internal/api/middleware"
	"ctchen222/mlb-compare/internal/api/response"
	"ctchen222/mlb-compare/internal/api/service"
	"ctchen222/mlb-compare/internal/metrics"
	"ctchen222/mlb-compare/internal/validator"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Options carries the optional parts of the HTTP surface.
type Options struct {
	AllowedOrigins []string
	// Recorder counts served requests; nil disables it.
	Recorder middleware.RequestRecorder
	// Gatherer backs GET /metrics; nil leaves the route out.
	Gatherer prometheus.Gatherer
}

// Server owns the gin engine and its route table.
type Server struct {
	engine *gin.Engine
}

// NewServer wires the controllers into a gin engine.
func NewServer(
	userService service.UserService,
	userController *controller.UserController,
	comparisonController *controller.ComparisonController,
	opts Options,
) *Server {
	if err := validator.RegisterGinValidations(); err != nil {
		slog.Error("Failed to register request validations", "error", err)
	}

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.Tracing(),
		middleware.AccessLog(opts.Recorder),
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			slog.ErrorContext(c.Request.Context(), "Recovered from panic", "panic", recovered)
			response.ErrorResponse(c, http.StatusInternalServerError, response.DetailInternal)
		}),
		cors.New(corsConfig(opts.AllowedOrigins)),
	)

	s := &Server{engine: engine}
	s.registerRoutes(userService, userController, comparisonController, opts.Gatherer)
	return s
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func (s *Server) registerRoutes(
	userService service.UserService,
	userController *controller.UserController,
	comparisonController *controller.ComparisonController,
	gatherer prometheus.Gatherer,
) {
	s.engine.GET("/health", controller.Health)
	s.engine.POST("/register", userController.Register)
	s.engine.POST("/token", userController.Login)

	authenticated := s.engine.Group("/")
	authenticated.Use(middleware.AuthRequired(userService))
	{
		authenticated.POST("/compare_players", comparisonController.Compare)
		authenticated.GET("/comparison_history", comparisonController.History)
	}

	if gatherer != nil {
		s.engine.GET("/metrics", gin.WrapH(metrics.Handler(gatherer)))
	}
}

// Engine returns the HTTP handler.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
