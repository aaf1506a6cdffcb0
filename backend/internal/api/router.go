// Package api serves the read-only JSON endpoints of the web front-end.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"instavibe/backend/internal/constants"
	"instavibe/backend/internal/social"
	"instavibe/backend/pkg/logger"
)

// Reader is the read side the handlers need
type Reader interface {
	RecentPosts(ctx context.Context, limit int) ([]social.PostView, error)
	RecentEvents(ctx context.Context, limit int) ([]social.EventView, error)
	PersonProfile(ctx context.Context, personID string) (*social.Profile, error)
	TopicPages(ctx context.Context, name string) (*social.TopicView, error)
}

// Handler holds the dependencies of every route
type Handler struct {
	reader    Reader
	logger    *zap.Logger
	feedLimit int
	now       func() time.Time
}

// Option configures a Handler
type Option func(*Handler)

// WithClock replaces time.Now for humanized timestamps
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// WithFeedLimit overrides how many posts and events the home page returns
func WithFeedLimit(n int) Option {
	return func(h *Handler) {
		if n > 0 {
			h.feedLimit = n
		}
	}
}

// NewHandler creates the route handlers
func NewHandler(reader Reader, log *zap.Logger, opts ...Option) *Handler {
	h := &Handler{
		reader:    reader,
		logger:    logger.OrGet(log),
		feedLimit: constants.DefaultFeedLimit,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// NewRouter builds the gin engine with logging, recovery and CORS
func NewRouter(h *Handler, production bool) *gin.Engine {
	if production {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(ginLogger(h.logger))
	router.Use(gin.Recovery())
	router.Use(cors())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/hello", func(c *gin.Context) {
		c.String(http.StatusOK, "Hello, World!")
	})

	router.GET("/", h.home)
	router.GET("/people/:id", h.person)
	router.GET("/topics/:name", h.topic)

	return router
}
