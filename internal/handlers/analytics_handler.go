package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/eventx/internal/models"
	"github.com/joshua-takyi/eventx/internal/services"
)

func DashboardStats(as *services.AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := mustIdentity(c)
		if !ok {
			return
		}
		stats, err := as.Dashboard(c.Request.Context(), identity)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func OverallAnalytics(as *services.AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		overall, err := as.Overall(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, overall)
	}
}

func EventAnalytics(as *services.AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		insights, err := as.EventInsights(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, insights)
	}
}

// Health reports liveness and whether image uploads are available.
func Health(imageStorage bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
			"status":       "OK",
			"service":      "eventx-api",
			"imageStorage": imageStorage,
		}, "Server is running"))
	}
}
