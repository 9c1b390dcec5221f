package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/citycircuit/transit-backend-go/internal/models"
	"github.com/citycircuit/transit-backend-go/internal/service"
	"github.com/citycircuit/transit-backend-go/pkg/response"
)

// PopulationHandler exposes population datasets and their analysis over HTTP
type PopulationHandler struct {
	service *service.PopulationService
}

func NewPopulationHandler(service *service.PopulationService) *PopulationHandler {
	return &PopulationHandler{service: service}
}

func (h *PopulationHandler) Create(c *gin.Context) {
	var data models.PopulationDensityData
	if err := c.ShouldBindJSON(&data); err != nil {
		response.BadRequest(c, "invalid population data payload: "+err.Error())
		return
	}

	created, err := h.service.Create(data)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, created)
}

func (h *PopulationHandler) Get(c *gin.Context) {
	data, err := h.service.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if data == nil {
		response.NotFound(c, "population data not found")
		return
	}
	response.Success(c, data)
}

func (h *PopulationHandler) List(c *gin.Context) {
	datasets, err := h.service.ListByRegion(c.Query("region"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{
		"datasets": datasets,
		"total":    len(datasets),
	})
}

func (h *PopulationHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": c.Param("id")})
}

func (h *PopulationHandler) Analyze(c *gin.Context) {
	result, err := h.service.Analyze(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if result == nil {
		response.NotFound(c, "population data not found")
		return
	}
	response.Success(c, result)
}

type coverageGapsRequest struct {
	CandidateStops []models.Coordinates `json:"candidate_stops" binding:"required"`
}

func (h *PopulationHandler) CoverageGaps(c *gin.Context) {
	var req coverageGapsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid coverage gap payload: "+err.Error())
		return
	}

	gaps, err := h.service.CoverageGaps(c.Param("id"), req.CandidateStops)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{
		"coverage_gaps": gaps,
		"total":         len(gaps),
	})
}

func (h *PopulationHandler) Recommendations(c *gin.Context) {
	recommendations, err := h.service.Recommendations(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{
		"recommendations": recommendations,
		"total":           len(recommendations),
	})
}
