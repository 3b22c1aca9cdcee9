package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/bluedata/analytics-backend-go/internal/models"
	"github.com/bluedata/analytics-backend-go/internal/service"
	"github.com/bluedata/analytics-backend-go/pkg/response"
)

// AnalyticsHandler handles HTTP requests for summary and exploration.
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// GetSummary handles GET /api/v1/data/summary.
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	summary, err := h.analyticsService.Summary()
	if err != nil {
		respondServiceError(c, err, "Failed to compute summary")
		return
	}
	response.Success(c, summary)
}

// GetExploration handles GET /api/v1/data/exploration.
func (h *AnalyticsHandler) GetExploration(c *gin.Context) {
	var filter models.ExplorationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	exploration, err := h.analyticsService.Exploration(filter)
	if err != nil {
		respondServiceError(c, err, "Failed to compute exploration view")
		return
	}
	response.Success(c, exploration)
}

// GetAggregates handles GET /api/v1/aggregates.
func (h *AnalyticsHandler) GetAggregates(c *gin.Context) {
	key := models.GroupKey(c.DefaultQuery("groupBy", string(models.GroupByArea)))

	buckets, err := h.analyticsService.Aggregates(key)
	if err != nil {
		if errors.Is(err, service.ErrNotReady) {
			response.ServiceUnavailable(c, "Data not loaded")
			return
		}
		response.BadRequest(c, "Invalid groupBy parameter")
		return
	}
	response.Success(c, buckets)
}

// GetHighRisk handles GET /api/v1/risk/high.
func (h *AnalyticsHandler) GetHighRisk(c *gin.Context) {
	threshold := -1.0
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			response.BadRequest(c, "Invalid threshold parameter")
			return
		}
		threshold = parsed
	}

	records, err := h.analyticsService.HighRisk(threshold)
	if err != nil {
		respondServiceError(c, err, "Failed to rank high-risk records")
		return
	}
	response.Success(c, gin.H{
		"data":  records,
		"count": len(records),
	})
}

// respondServiceError maps service errors to HTTP responses without
// leaking internals.
func respondServiceError(c *gin.Context, err error, message string) {
	if errors.Is(err, service.ErrNotReady) {
		response.ServiceUnavailable(c, "Data not loaded")
		return
	}
	if errors.Is(err, service.ErrModelsNotTrained) {
		response.ServiceUnavailable(c, "Models not trained")
		return
	}
	log.WithError(err).Error(message)
	response.InternalError(c, message)
}
