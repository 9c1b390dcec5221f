package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/citycircuit/transit-backend-go/internal/export"
	"github.com/citycircuit/transit-backend-go/internal/models"
	"github.com/citycircuit/transit-backend-go/internal/repository"
	"github.com/citycircuit/transit-backend-go/internal/service"
	"github.com/citycircuit/transit-backend-go/pkg/response"
)

// ExportHandler exposes GeoJSON and CSV interchange over HTTP
type ExportHandler struct {
	routes  *service.RouteService
	results *service.OptimizationService
}

func NewExportHandler(routes *service.RouteService, results *service.OptimizationService) *ExportHandler {
	return &ExportHandler{routes: routes, results: results}
}

// loadRoutes fetches the routes selected by the shared export query
// parameters
func (h *ExportHandler) loadRoutes(c *gin.Context) ([]models.Route, bool) {
	routes, _, err := h.routes.List(repository.RouteFilter{
		OperatorID: c.Query("operator_id"),
		ActiveOnly: c.Query("active_only") == "true",
		PageSize:   100,
	})
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return routes, true
}

func (h *ExportHandler) RoutesGeoJSON(c *gin.Context) {
	routes, ok := h.loadRoutes(c)
	if !ok {
		return
	}

	fc, err := export.RoutesToGeoJSON(routes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, fc)
}

func (h *ExportHandler) ImportRoutesGeoJSON(c *gin.Context) {
	var fc export.FeatureCollection
	if err := c.ShouldBindJSON(&fc); err != nil {
		response.BadRequest(c, "invalid geojson payload: "+err.Error())
		return
	}

	routes, err := export.RoutesFromGeoJSON(fc)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	imported := make([]string, 0, len(routes))
	for _, route := range routes {
		created, err := h.routes.Create(route)
		if err != nil {
			respondError(c, err)
			return
		}
		imported = append(imported, created.ID)
	}
	response.Success(c, gin.H{
		"imported": imported,
		"total":    len(imported),
	})
}

func (h *ExportHandler) RoutesCSV(c *gin.Context) {
	routes, ok := h.loadRoutes(c)
	if !ok {
		return
	}

	routesCSV, stopsCSV, err := export.RoutesToCSV(routes)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{
		"routes_csv": routesCSV,
		"stops_csv":  stopsCSV,
	})
}

func (h *ExportHandler) ResultsCSV(c *gin.Context) {
	results, err := h.results.ListResults(c.Query("route_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	out, err := export.ResultsToCSV(results)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(200, "text/csv", []byte(out))
}
