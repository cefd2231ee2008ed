// Package server exposes practice sessions, problems and the tutor over a
// JSON HTTP API.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/abhisek/tutorly/internal/middleware"
	"github.com/abhisek/tutorly/internal/practice"
	"github.com/abhisek/tutorly/internal/response"
	"github.com/abhisek/tutorly/internal/tutor"
	"github.com/abhisek/tutorly/internal/validator"
)

// Options wires the router's dependencies.
type Options struct {
	Practice *practice.Service
	Tutor    tutor.Responder

	// Health reports whether the database is reachable.
	Health func(ctx context.Context) error

	// Limiter enables rate limiting when non-nil.
	Limiter middleware.Limiter

	// AllowedOrigins restricts CORS. Empty allows every origin.
	AllowedOrigins []string

	Log     zerolog.Logger
	Version string
}

type handlers struct {
	practice *practice.Service
	tutor    tutor.Responder
	health   func(ctx context.Context) error
	log      zerolog.Logger
	version  string
}

// NewRouter builds the gin engine. The caller sets gin's mode beforehand.
func NewRouter(o Options) *gin.Engine {
	validator.Setup()

	h := &handlers{
		practice: o.Practice,
		tutor:    o.Tutor,
		health:   o.Health,
		log:      o.Log,
		version:  o.Version,
	}

	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(o.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = o.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", response.HeaderRequestID}
	corsConfig.ExposeHeaders = []string{response.HeaderRequestID}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(o.Log))

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	})

	router.GET("/health", h.healthCheck)

	api := router.Group("/api/v1")
	if o.Limiter != nil {
		api.Use(middleware.RateLimit(o.Limiter, o.Log))
	}

	problems := api.Group("/problems")
	{
		problems.GET("", h.listProblems)
		problems.POST("", h.createProblem)
		problems.GET("/:id", h.getProblem)
		problems.POST("/:id/validate", h.validateAnswer)
	}

	sessions := api.Group("/sessions")
	{
		sessions.POST("", h.startSession)
		sessions.GET("/:id", h.getSession)
		sessions.PUT("/:id/answer", h.saveAnswer)
		sessions.POST("/:id/hints", h.revealHint)
		sessions.POST("/:id/solution", h.revealSolution)
		sessions.POST("/:id/attempts", h.submit)
	}

	api.POST("/tutor/ask", h.askTutor)

	return router
}

// GET /health
func (h *handlers) healthCheck(c *gin.Context) {
	if h.health != nil {
		if err := h.health(c.Request.Context()); err != nil {
			h.log.Error().Err(err).Msg("health check failed")
			response.Fail(c, http.StatusServiceUnavailable, response.ErrUnavailable)
			return
		}
	}
	response.Success(c, http.StatusOK, gin.H{"status": "ok", "version": h.version})
}
