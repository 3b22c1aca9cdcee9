package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bluedata/analytics-backend-go/internal/service"
	"github.com/bluedata/analytics-backend-go/pkg/response"
)

// ScheduleHandler handles HTTP requests for inspection scheduling.
type ScheduleHandler struct {
	scheduleService *service.ScheduleService
}

// NewScheduleHandler creates a new schedule handler.
func NewScheduleHandler(scheduleService *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// GetSchedule handles GET /api/v1/scheduling.
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	weeks, err := strconv.Atoi(c.DefaultQuery("weeks", "0"))
	if err != nil {
		response.BadRequest(c, "Invalid weeks parameter")
		return
	}
	batchSize, err := strconv.Atoi(c.DefaultQuery("batchSize", "0"))
	if err != nil {
		response.BadRequest(c, "Invalid batchSize parameter")
		return
	}

	plan, err := h.scheduleService.Plan(weeks, batchSize)
	if err != nil {
		respondServiceError(c, err, "Failed to build schedule")
		return
	}
	response.Success(c, plan)
}
