package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/citycircuit/transit-backend-go/internal/models"
	"github.com/citycircuit/transit-backend-go/internal/service"
	"github.com/citycircuit/transit-backend-go/pkg/response"
)

// OptimizationHandler exposes route optimization over HTTP
type OptimizationHandler struct {
	service *service.OptimizationService
}

func NewOptimizationHandler(service *service.OptimizationService) *OptimizationHandler {
	return &OptimizationHandler{service: service}
}

type optimizeRequest struct {
	PopulationDataID string `json:"population_data_id"`
}

func (h *OptimizationHandler) Optimize(c *gin.Context) {
	var req optimizeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "invalid optimization payload: "+err.Error())
			return
		}
	}

	result, err := h.service.Optimize(c.Param("id"), req.PopulationDataID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{
		"result":        result,
		"overall_score": result.Metrics.OverallScore(),
	})
}

type batchOptimizeRequest struct {
	RouteIDs         []string `json:"route_ids" binding:"required"`
	PopulationDataID string   `json:"population_data_id"`
}

func (h *OptimizationHandler) BatchOptimize(c *gin.Context) {
	var req batchOptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid batch optimization payload: "+err.Error())
		return
	}

	results, summary, err := h.service.BatchOptimize(req.RouteIDs, req.PopulationDataID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{
		"results": results,
		"summary": summary,
	})
}

type compareRequest struct {
	OptimizedRoute   models.Route `json:"optimized_route" binding:"required"`
	PopulationDataID string       `json:"population_data_id"`
}

func (h *OptimizationHandler) Compare(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid comparison payload: "+err.Error())
		return
	}

	result, err := h.service.Compare(c.Param("id"), req.OptimizedRoute, req.PopulationDataID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{
		"result":        result,
		"overall_score": result.Metrics.OverallScore(),
	})
}

func (h *OptimizationHandler) GetResult(c *gin.Context) {
	result, err := h.service.GetResult(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if result == nil {
		response.NotFound(c, "optimization result not found")
		return
	}
	response.Success(c, result)
}

func (h *OptimizationHandler) ListResults(c *gin.Context) {
	results, err := h.service.ListResults(c.Query("route_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{
		"results": results,
		"total":   len(results),
	})
}
