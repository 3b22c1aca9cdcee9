package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/bluedata/analytics-backend-go/internal/service"
	"github.com/bluedata/analytics-backend-go/pkg/response"
)

// PipelineHandler handles admin requests that re-run the pipeline.
type PipelineHandler struct {
	pipelineService *service.PipelineService
}

// NewPipelineHandler creates a new pipeline handler.
func NewPipelineHandler(pipelineService *service.PipelineService) *PipelineHandler {
	return &PipelineHandler{pipelineService: pipelineService}
}

// PostReload handles POST /api/v1/pipeline/reload. On failure the previous
// snapshot stays live.
func (h *PipelineHandler) PostReload(c *gin.Context) {
	snap, err := h.pipelineService.Run(time.Now().UTC())
	if err != nil {
		log.WithError(err).Error("Pipeline reload failed")
		response.InternalError(c, "Pipeline reload failed; previous snapshot remains active")
		return
	}

	response.Success(c, gin.H{
		"snapshotId":  snap.ID,
		"records":     len(snap.Records),
		"generatedAt": snap.GeneratedAt,
		"diagnostics": snap.Diagnostics,
	})
}
