package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/citycircuit/transit-backend-go/internal/analysis/ranking"
	"github.com/citycircuit/transit-backend-go/internal/service"
	"github.com/citycircuit/transit-backend-go/pkg/response"
)

// RankingHandler exposes result ranking and reporting over HTTP
type RankingHandler struct {
	service *service.OptimizationService
}

func NewRankingHandler(service *service.OptimizationService) *RankingHandler {
	return &RankingHandler{service: service}
}

func (h *RankingHandler) Rank(c *gin.Context) {
	criteria := ranking.ParseCriteria(c.Query("criteria"))
	results, err := h.service.Rank(c.Query("route_id"), criteria)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{
		"criteria": criteria,
		"results":  results,
		"total":    len(results),
	})
}

type rankWeightedRequest struct {
	Weights map[string]float64 `json:"weights"`
	RouteID string             `json:"route_id"`
}

func (h *RankingHandler) RankWeighted(c *gin.Context) {
	var req rankWeightedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid weighted ranking payload: "+err.Error())
		return
	}

	results, err := h.service.RankWeighted(req.RouteID, req.Weights)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{
		"results": results,
		"total":   len(results),
	})
}

func (h *RankingHandler) Report(c *gin.Context) {
	criteria := ranking.ParseCriteria(c.Query("criteria"))
	report, err := h.service.Report(c.Query("route_id"), criteria)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, report)
}
