package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/bluedata/analytics-backend-go/internal/service"
	"github.com/bluedata/analytics-backend-go/pkg/response"
)

// PredictionHandler handles HTTP requests for model predictions.
type PredictionHandler struct {
	predictionService *service.PredictionService
}

// NewPredictionHandler creates a new prediction handler.
func NewPredictionHandler(predictionService *service.PredictionService) *PredictionHandler {
	return &PredictionHandler{predictionService: predictionService}
}

// GetPredictions handles GET /api/v1/predictions.
func (h *PredictionHandler) GetPredictions(c *gin.Context) {
	report, err := h.predictionService.Report()
	if err != nil {
		respondServiceError(c, err, "Failed to compute predictions")
		return
	}
	response.Success(c, report)
}
