package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tkmc-personal/hybridsizer/internal/api/handlers"
	"github.com/tkmc-personal/hybridsizer/internal/api/middleware"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}
	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.CORS())
	router.Use(middleware.Logger(log))
	router.Use(middleware.ErrorHandler())

	simulateHandler := handlers.NewSimulateHandler()
	searchHandler := handlers.NewSearchHandler(log)
	datasetHandler := handlers.NewDatasetHandler()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/simulate", simulateHandler.RunSimulation)
		api.POST("/search/grid", searchHandler.RunGridSearch)
		api.POST("/search/evolve", searchHandler.RunEvolveSearch)
		api.GET("/datasets", datasetHandler.ListDatasets)
	}

	addr := fmt.Sprintf(":%s", port)
	log.Info().Str("addr", addr).Msg("starting API server")
	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
