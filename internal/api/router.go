package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bluedata/analytics-backend-go/internal/config"
	"github.com/bluedata/analytics-backend-go/internal/handler"
	"github.com/bluedata/analytics-backend-go/internal/middleware"
	"github.com/bluedata/analytics-backend-go/internal/service"
	"github.com/bluedata/analytics-backend-go/internal/snapshot"
)

// Handlers bundles the wired HTTP handlers.
type Handlers struct {
	Analytics  *handler.AnalyticsHandler
	Schedule   *handler.ScheduleHandler
	Prediction *handler.PredictionHandler
	Chatbot    *handler.ChatbotHandler
	Pipeline   *handler.PipelineHandler
}

// NewHandlers wires handlers over the services.
func NewHandlers(cfg *config.Config, schema config.Schema, store *snapshot.Store, pipelineService *service.PipelineService) Handlers {
	return Handlers{
		Analytics:  handler.NewAnalyticsHandler(service.NewAnalyticsService(cfg, store)),
		Schedule:   handler.NewScheduleHandler(service.NewScheduleService(cfg, schema, store)),
		Prediction: handler.NewPredictionHandler(service.NewPredictionService(store)),
		Chatbot:    handler.NewChatbotHandler(service.NewChatbotService(cfg, store)),
		Pipeline:   handler.NewPipelineHandler(pipelineService),
	}
}

// SetupRouter builds the gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, store *snapshot.Store, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.RateLimit(cfg.RateLimit, time.Minute))

	// CORS for the dashboard frontend
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		snap := store.Current()
		c.JSON(http.StatusOK, gin.H{
			"status":        "ok",
			"dataLoaded":    snap != nil,
			"modelsTrained": snap != nil && len(snap.Models) > 0,
		})
	})

	api := r.Group("/api/v1")
	{
		data := api.Group("/data")
		{
			data.GET("/summary", h.Analytics.GetSummary)
			data.GET("/exploration", h.Analytics.GetExploration)
		}

		api.GET("/aggregates", h.Analytics.GetAggregates)
		api.GET("/risk/high", h.Analytics.GetHighRisk)
		api.GET("/scheduling", h.Schedule.GetSchedule)
		api.GET("/predictions", h.Prediction.GetPredictions)
		api.POST("/chatbot", h.Chatbot.PostChatbot)

		admin := api.Group("/pipeline", middleware.Auth(cfg.JWTSecret))
		{
			admin.POST("/reload", h.Pipeline.PostReload)
		}
	}

	return r
}
