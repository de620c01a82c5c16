package http

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/aniview/anime-gateway/internal/catalog"
	"github.com/aniview/anime-gateway/internal/config"
	"github.com/aniview/anime-gateway/internal/http/handlers"
)

func NewServer(cfg config.Config, db *sql.DB, service *catalog.Service) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: cfg.AppName,
	})

	app.Use(recover.New())

	health := handlers.NewHealthHandler(db)
	catalogHandlers := handlers.NewCatalogHandler(service)

	app.Get("/health", health.Check)
	app.Get("/v1/health", health.Check)

	v1 := app.Group("/v1")
	v1.Get("/search", catalogHandlers.Search)
	v1.Get("/browse", catalogHandlers.Browse)
	v1.Get("/home", catalogHandlers.Home)
	v1.Get("/anime/:id", catalogHandlers.Detail)
	v1.Get("/video", catalogHandlers.Video)

	return app
}
