package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"katalog/internal/models"
)

// Dashboard is the set of pipelines the API serves
type Dashboard interface {
	Dashboard(ctx context.Context, userID string) (models.DashboardData, error)
	Feed(ctx context.Context) (models.FeedData, error)
	Challenge(ctx context.Context, userID string) (*models.ChallengeStatus, error)
	Status(ctx context.Context) models.SyncStatus
	Overview(ctx context.Context, userID string) (models.Overview, error)
}

// RouterConfig holds the router dependencies
type RouterConfig struct {
	Dashboard     Dashboard
	Logger        *zap.Logger
	DefaultUserID string
	AllowOrigins  []string
}

// NewRouter builds the HTTP API
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		dashboard:     cfg.Dashboard,
		logger:        logger,
		defaultUserID: cfg.DefaultUserID,
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger))
	if len(cfg.AllowOrigins) > 0 {
		router.Use(CORS(cfg.AllowOrigins))
	}

	router.GET("/health", h.Health)

	api := router.Group("/api")
	{
		api.GET("/dashboard", h.GetDashboard)
		api.GET("/feed", h.GetFeed)
		api.GET("/challenge", h.GetChallenge)
		api.GET("/status", h.GetStatus)
		api.GET("/overview", h.GetOverview)
	}

	return router
}
