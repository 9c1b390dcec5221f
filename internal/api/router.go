package api

import (
	"github.com/gin-gonic/gin"

	"github.com/citycircuit/transit-backend-go/internal/handler"
	"github.com/citycircuit/transit-backend-go/internal/middleware"
	"github.com/citycircuit/transit-backend-go/pkg/logger"
)

// Handlers bundles everything the router mounts
type Handlers struct {
	Routes       *handler.RouteHandler
	Population   *handler.PopulationHandler
	Analysis     *handler.AnalysisHandler
	Optimization *handler.OptimizationHandler
	Ranking      *handler.RankingHandler
	Export       *handler.ExportHandler
}

// NewRouter builds the gin engine with all routes mounted
func NewRouter(h Handlers, log logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		routes := v1.Group("/routes")
		{
			routes.POST("", h.Routes.Create)
			routes.GET("", h.Routes.List)
			routes.GET("/:id", h.Routes.Get)
			routes.PUT("/:id", h.Routes.Update)
			routes.DELETE("/:id", h.Routes.Delete)

			routes.GET("/:id/analysis", h.Analysis.AnalyzeRoute)
			routes.GET("/:id/matrix", h.Analysis.PathMatrix)
			routes.GET("/:id/connectivity", h.Analysis.Connectivity)
			routes.GET("/:id/shortest-path", h.Analysis.ShortestPath)
			routes.GET("/:id/stop-order", h.Analysis.OrderStops)

			routes.POST("/:id/optimize", h.Optimization.Optimize)
			routes.POST("/:id/compare", h.Optimization.Compare)
		}

		analysis := v1.Group("/analysis")
		{
			analysis.POST("/batch", h.Analysis.BatchAnalyze)
		}

		population := v1.Group("/population")
		{
			population.POST("", h.Population.Create)
			population.GET("", h.Population.List)
			population.GET("/:id", h.Population.Get)
			population.DELETE("/:id", h.Population.Delete)
			population.GET("/:id/analysis", h.Population.Analyze)
			population.POST("/:id/coverage-gaps", h.Population.CoverageGaps)
			population.GET("/:id/recommendations", h.Population.Recommendations)
		}

		optimization := v1.Group("/optimization")
		{
			optimization.POST("/batch", h.Optimization.BatchOptimize)
			optimization.GET("/results", h.Optimization.ListResults)
			optimization.GET("/results/:id", h.Optimization.GetResult)
		}

		rankings := v1.Group("/rankings")
		{
			rankings.GET("", h.Ranking.Rank)
			rankings.POST("/weighted", h.Ranking.RankWeighted)
			rankings.GET("/report", h.Ranking.Report)
		}

		exports := v1.Group("/export")
		{
			exports.GET("/routes/geojson", h.Export.RoutesGeoJSON)
			exports.POST("/routes/geojson", h.Export.ImportRoutesGeoJSON)
			exports.GET("/routes/csv", h.Export.RoutesCSV)
			exports.GET("/results/csv", h.Export.ResultsCSV)
		}
	}

	return r
}
