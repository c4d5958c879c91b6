package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"

	"powertown/internal/config"
	"powertown/internal/database"
	"powertown/internal/domain/export"
	"powertown/internal/domain/importer"
	"powertown/internal/domain/survey"
	"powertown/internal/middleware"
	"powertown/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	if err := db.AutoMigrate(
		&survey.IndustrialPark{},
		&survey.Building{},
		&survey.Observation{},
		&survey.MediaAsset{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	store := storage.NewLocalStore(cfg.UploadsDir)
	repos := survey.NewRepositories(db)

	surveyHandler := survey.NewHandler(survey.NewService(repos, store))
	importHandler := importer.NewHandler(importer.NewService(db, store, clockwork.NewRealClock()))
	exportHandler := export.NewHandler(repos)

	r := gin.Default()
	r.Use(middleware.ErrorLogger())

	// Stored media is served straight off the uploads dir.
	r.Static(cfg.StaticBase, cfg.UploadsDir)

	v1 := r.Group("/api/v1")
	{
		survey.RegisterRoutes(v1, surveyHandler)
		importer.RegisterRoutes(v1, importHandler)
		export.RegisterRoutes(v1, exportHandler)
	}

	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
