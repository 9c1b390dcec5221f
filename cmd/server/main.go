package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/citycircuit/transit-backend-go/internal/analysis/optimizer"
	"github.com/citycircuit/transit-backend-go/internal/analysis/pathmatrix"
	"github.com/citycircuit/transit-backend-go/internal/analysis/population"
	"github.com/citycircuit/transit-backend-go/internal/analysis/ranking"
	"github.com/citycircuit/transit-backend-go/internal/analysis/routescore"
	"github.com/citycircuit/transit-backend-go/internal/api"
	"github.com/citycircuit/transit-backend-go/internal/config"
	"github.com/citycircuit/transit-backend-go/internal/database"
	"github.com/citycircuit/transit-backend-go/internal/handler"
	"github.com/citycircuit/transit-backend-go/internal/repository"
	"github.com/citycircuit/transit-backend-go/internal/service"
	"github.com/citycircuit/transit-backend-go/pkg/logger"
)

func main() {
	// .env is optional; real deployments set the environment directly
	godotenv.Load()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	log := logger.NewWithLevel(cfg.LogLevel, logger.ConsoleWriter(), logger.FileWriter(cfg.LogPath))

	if err := database.Initialize(cfg.DBPath); err != nil {
		log.Fatal("database initialization failed", "error", err)
	}
	defer database.Close()

	db := database.GetDB()
	if err := database.RunMigrations(db); err != nil {
		log.Fatal("migrations failed", "error", err)
	}

	routeRepo := repository.NewRouteRepository(db)
	populationRepo := repository.NewPopulationRepository(db)
	resultRepo := repository.NewResultRepository(db)

	scorer := routescore.NewScorer(routescore.NewRuleBasedEstimator(), log)
	analyzer := population.NewAnalyzer(log)
	builder := pathmatrix.NewBuilder(log)
	engine := optimizer.NewEngine(scorer, analyzer, builder, log)
	calculator := ranking.NewMetricsCalculator(log)
	ranker := ranking.NewEngine(log)
	generator := ranking.NewGenerator(calculator, ranker, log)

	routeService := service.NewRouteService(routeRepo, log)
	populationService := service.NewPopulationService(populationRepo, analyzer, log)
	analysisService := service.NewAnalysisService(routeRepo, populationRepo, scorer, builder, log)
	optimizationService := service.NewOptimizationService(routeRepo, populationRepo, resultRepo,
		engine, generator, ranker, log)

	router := api.NewRouter(api.Handlers{
		Routes:       handler.NewRouteHandler(routeService),
		Population:   handler.NewPopulationHandler(populationService),
		Analysis:     handler.NewAnalysisHandler(analysisService),
		Optimization: handler.NewOptimizationHandler(optimizationService),
		Ranking:      handler.NewRankingHandler(optimizationService),
		Export:       handler.NewExportHandler(routeService, optimizationService),
	}, log)

	log.Info("server starting", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("server exited", "error", err)
	}
}
