package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/citycircuit/transit-backend-go/internal/models"
	"github.com/citycircuit/transit-backend-go/internal/repository"
	"github.com/citycircuit/transit-backend-go/internal/service"
	"github.com/citycircuit/transit-backend-go/pkg/response"
)

// RouteHandler exposes the route catalogue over HTTP
type RouteHandler struct {
	service *service.RouteService
}

func NewRouteHandler(service *service.RouteService) *RouteHandler {
	return &RouteHandler{service: service}
}

// respondError maps service errors onto HTTP statuses. Validation
// failures are the caller's fault and get a 422.
func respondError(c *gin.Context, err error) {
	var vErr *models.ValidationError
	if errors.As(err, &vErr) {
		response.UnprocessableEntity(c, vErr.Error())
		return
	}
	response.InternalError(c, err.Error())
}

func (h *RouteHandler) Create(c *gin.Context) {
	var route models.Route
	if err := c.ShouldBindJSON(&route); err != nil {
		response.BadRequest(c, "invalid route payload: "+err.Error())
		return
	}

	created, err := h.service.Create(route)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, created)
}

func (h *RouteHandler) Get(c *gin.Context) {
	route, err := h.service.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if route == nil {
		response.NotFound(c, "route not found")
		return
	}
	response.Success(c, route)
}

type listRoutesQuery struct {
	OperatorID string `form:"operator_id"`
	ActiveOnly bool   `form:"active_only"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

func (h *RouteHandler) List(c *gin.Context) {
	var query listRoutesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "invalid query parameters: "+err.Error())
		return
	}

	routes, total, err := h.service.List(repository.RouteFilter{
		OperatorID: query.OperatorID,
		ActiveOnly: query.ActiveOnly,
		Page:       query.Page,
		PageSize:   query.PageSize,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{
		"routes": routes,
		"total":  total,
	})
}

func (h *RouteHandler) Update(c *gin.Context) {
	var route models.Route
	if err := c.ShouldBindJSON(&route); err != nil {
		response.BadRequest(c, "invalid route payload: "+err.Error())
		return
	}
	route.ID = c.Param("id")

	if err := h.service.Update(route); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, route)
}

func (h *RouteHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": c.Param("id")})
}
