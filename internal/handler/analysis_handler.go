package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/citycircuit/transit-backend-go/internal/analysis/pathmatrix"
	"github.com/citycircuit/transit-backend-go/internal/service"
	"github.com/citycircuit/transit-backend-go/internal/spatial"
	"github.com/citycircuit/transit-backend-go/pkg/response"
)

// AnalysisHandler exposes route scoring and path matrix operations over HTTP
type AnalysisHandler struct {
	service *service.AnalysisService
}

func NewAnalysisHandler(service *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{service: service}
}

func (h *AnalysisHandler) AnalyzeRoute(c *gin.Context) {
	result, err := h.service.AnalyzeRoute(c.Param("id"), c.Query("population_data_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{
		"analysis":      result,
		"overall_score": result.OverallScore(),
	})
}

type batchAnalyzeRequest struct {
	RouteIDs         []string `json:"route_ids" binding:"required"`
	PopulationDataID string   `json:"population_data_id"`
}

func (h *AnalysisHandler) BatchAnalyze(c *gin.Context) {
	var req batchAnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid batch analysis payload: "+err.Error())
		return
	}

	results, err := h.service.BatchAnalyze(req.RouteIDs, req.PopulationDataID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{
		"results":   results,
		"requested": len(req.RouteIDs),
		"analyzed":  len(results),
	})
}

func (h *AnalysisHandler) PathMatrix(c *gin.Context) {
	metric := spatial.ParseMetric(c.Query("metric"))
	matrix, err := h.service.PathMatrix(c.Param("id"), metric)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, matrix)
}

func (h *AnalysisHandler) Connectivity(c *gin.Context) {
	metric := spatial.ParseMetric(c.Query("metric"))
	summary, err := h.service.Connectivity(c.Param("id"), metric)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, summary)
}

func (h *AnalysisHandler) ShortestPath(c *gin.Context) {
	origin := c.Query("origin")
	destination := c.Query("destination")
	if origin == "" || destination == "" {
		response.BadRequest(c, "origin and destination query parameters are required")
		return
	}

	metric := spatial.ParseMetric(c.Query("metric"))
	path, err := h.service.ShortestPath(c.Param("id"), origin, destination, metric)
	if errors.Is(err, pathmatrix.ErrStopNotInMatrix) {
		response.NotFound(c, err.Error())
		return
	}
	if errors.Is(err, pathmatrix.ErrNoPath) {
		response.UnprocessableEntity(c, err.Error())
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{
		"path": path,
		"hops": len(path) - 1,
	})
}

func (h *AnalysisHandler) OrderStops(c *gin.Context) {
	metric := spatial.ParseMetric(c.Query("metric"))
	order, err := h.service.OrderStops(c.Param("id"), metric)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"stop_order": order})
}
