package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/groovecoder/ichnaea/internal/models"
	"github.com/groovecoder/ichnaea/internal/service"
	"github.com/groovecoder/ichnaea/pkg/response"
)

// LocateHandler handles HTTP requests for position lookups
type LocateHandler struct {
	service *service.LocateService
}

// NewLocateHandler creates a new locate handler
func NewLocateHandler(service *service.LocateService) *LocateHandler {
	return &LocateHandler{service: service}
}

// Geolocate handles POST /v1/geolocate
func (h *LocateHandler) Geolocate(c *gin.Context) {
	var req models.GeolocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.service.Search(c.Request.Context(), req)
	if err != nil {
		response.InternalError(c, "Lookup failed")
		return
	}
	if result == nil {
		response.NotFound(c, "No location could be determined")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"location": gin.H{
			"lat": result.Lat,
			"lng": result.Lon,
		},
		"accuracy": result.Accuracy,
		"source":   result.Source,
	})
}
