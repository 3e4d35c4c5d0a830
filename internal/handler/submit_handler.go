package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/groovecoder/ichnaea/internal/models"
	"github.com/groovecoder/ichnaea/internal/service"
	"github.com/groovecoder/ichnaea/pkg/response"
)

// SubmitHandler handles HTTP requests for measurement submission
type SubmitHandler struct {
	service *service.CellService
}

// NewSubmitHandler creates a new submit handler
func NewSubmitHandler(service *service.CellService) *SubmitHandler {
	return &SubmitHandler{service: service}
}

// Submit handles POST /v1/submit
func (h *SubmitHandler) Submit(c *gin.Context) {
	var req models.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	var total models.SubmitResult
	for _, report := range req.Items {
		result, err := h.service.Observe(report)
		total.Accepted += result.Accepted
		total.Dropped += result.Dropped
		if err != nil {
			response.InternalError(c, "Failed to store measurements")
			return
		}
	}

	response.Success(c, total)
}
