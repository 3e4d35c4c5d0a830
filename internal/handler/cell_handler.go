package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/groovecoder/ichnaea/internal/models"
	"github.com/groovecoder/ichnaea/internal/repository"
	"github.com/groovecoder/ichnaea/internal/service"
	"github.com/groovecoder/ichnaea/internal/spatial"
	"github.com/groovecoder/ichnaea/pkg/response"
)

// CellHandler handles administrative queries over the cell catalog
type CellHandler struct {
	cells *repository.CellRepository
	areas *repository.AreaRepository
	aggr  *service.AreaService
}

// NewCellHandler creates a new cell handler
func NewCellHandler(cells *repository.CellRepository, areas *repository.AreaRepository, aggr *service.AreaService) *CellHandler {
	return &CellHandler{cells: cells, areas: areas, aggr: aggr}
}

// ListCells handles GET /v1/cells
func (h *CellHandler) ListCells(c *gin.Context) {
	var filter models.CellBoundsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	if filter.Lat < -90 || filter.Lat > 90 || filter.Lon < -180 || filter.Lon > 180 {
		response.BadRequest(c, "Latitude or longitude out of range")
		return
	}
	if filter.Radius <= 0 {
		filter.Radius = 10000
	}

	bounds := spatial.BoundingBox(filter.Lat, filter.Lon, filter.Radius)
	cells, err := h.cells.ListCellsInBounds(bounds, filter.Limit)
	if err != nil {
		response.InternalError(c, "Failed to list cells")
		return
	}

	response.Success(c, gin.H{
		"bounds": bounds,
		"cells":  cells,
		"count":  len(cells),
	})
}

// GetArea handles GET /v1/areas
func (h *CellHandler) GetArea(c *gin.Context) {
	var filter models.AreaKeyFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	key, ok := filter.Key()
	if !ok {
		response.BadRequest(c, "Unknown radio type")
		return
	}

	area, err := h.areas.GetArea(key)
	if err != nil {
		response.InternalError(c, "Failed to get area")
		return
	}
	if area == nil {
		response.NotFound(c, "Area not found")
		return
	}

	cells, err := h.cells.ListCellsByArea(key)
	if err != nil {
		response.InternalError(c, "Failed to list area cells")
		return
	}

	response.Success(c, gin.H{
		"area":  area,
		"cells": cells,
	})
}

// RecomputeAreas handles POST /v1/areas/recompute
func (h *CellHandler) RecomputeAreas(c *gin.Context) {
	count, err := h.aggr.RecomputeStale(0)
	if err != nil {
		response.InternalError(c, "Failed to recompute areas")
		return
	}

	response.Success(c, gin.H{"recomputed": count})
}
