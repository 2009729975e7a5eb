package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// errFetchFailed is the only failure detail clients see
const errFetchFailed = "failed to fetch dashboard data"

// Handler serves the dashboard endpoints
type Handler struct {
	dashboard     Dashboard
	logger        *zap.Logger
	defaultUserID string
}

// Health reports that the server is up
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetDashboard serves the library statistics
func (h *Handler) GetDashboard(c *gin.Context) {
	data, err := h.dashboard.Dashboard(c.Request.Context(), h.userID(c))
	if err != nil {
		h.fail(c, "dashboard", err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// GetFeed serves the network feed statistics
func (h *Handler) GetFeed(c *gin.Context) {
	data, err := h.dashboard.Feed(c.Request.Context())
	if err != nil {
		h.fail(c, "feed", err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// GetChallenge serves this year's reading challenge, or null when none is set
func (h *Handler) GetChallenge(c *gin.Context) {
	status, err := h.dashboard.Challenge(c.Request.Context(), h.userID(c))
	if err != nil {
		h.fail(c, "challenge", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"challenge": status})
}

// GetStatus serves the scraper refresh timestamps
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.Status(c.Request.Context()))
}

// GetOverview serves every dashboard section in one response
func (h *Handler) GetOverview(c *gin.Context) {
	data, err := h.dashboard.Overview(c.Request.Context(), h.userID(c))
	if err != nil {
		h.fail(c, "overview", err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// userID returns the user_id query parameter or the configured default
func (h *Handler) userID(c *gin.Context) string {
	if id, ok := c.GetQuery("user_id"); ok && id != "" {
		return id
	}
	return h.defaultUserID
}

func (h *Handler) fail(c *gin.Context, pipeline string, err error) {
	h.logger.Error("Pipeline failed", zap.String("pipeline", pipeline), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": errFetchFailed})
}
