package main

import (
	"log"

	"github.com/groovecoder/ichnaea/internal/api"
	"github.com/groovecoder/ichnaea/internal/config"
	"github.com/groovecoder/ichnaea/internal/database"
	"github.com/groovecoder/ichnaea/internal/handler"
	"github.com/groovecoder/ichnaea/internal/queue"
	"github.com/groovecoder/ichnaea/internal/repository"
	"github.com/groovecoder/ichnaea/internal/service"
)

func main() {
	cfg := config.Load()

	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()
	db := database.GetDB()

	cells := repository.NewCellRepository(db)
	areas := repository.NewAreaRepository(db)
	blacklist := repository.NewBlacklistRepository(db)

	reports := queue.NewReportQueue(queue.Open(cfg.RedisAddr, cfg.RedisPass))

	cellService := service.NewCellService(cells, blacklist)
	areaService := service.NewAreaService(db, cells, areas)
	locateService := service.NewLocateService(cells, areas, blacklist, reports)

	router := api.SetupRouter(cfg, api.Handlers{
		Locate: handler.NewLocateHandler(locateService),
		Submit: handler.NewSubmitHandler(cellService),
		Cell:   handler.NewCellHandler(cells, areas, areaService),
	})

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
