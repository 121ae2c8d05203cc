package main

import (
	"log"

	"license-activation-service/internal/activation"
	"license-activation-service/internal/config"
	"license-activation-service/internal/database"
	"license-activation-service/internal/handler"
	"license-activation-service/internal/middleware"
	"license-activation-service/internal/service"
	"license-activation-service/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config: ", err)
	}

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal("open database: ", err)
	}
	if err := database.SeedAdmin(db, cfg.AdminPassword); err != nil {
		log.Fatal("seed admin: ", err)
	}
	if cfg.SeedDemo {
		if err := database.SeedDemo(db); err != nil {
			log.Fatal("seed demo license: ", err)
		}
	}

	sheets, err := service.NewSheetSyncService(cfg.SheetSyncEnabled, cfg.SheetCredentials, cfg.SpreadsheetID, cfg.SheetName)
	if err != nil {
		log.Fatal("init sheet sync: ", err)
	}

	licenses := store.NewLicenseStore(db)
	var activations activation.ActivationRepository = store.NewActivationStore(db)
	if sheets != nil {
		activations = service.NewSyncedRepository(activations, sheets)
	}

	usage := service.NewUsageService(db)
	core := activation.NewHandler(licenses, activations, cfg.AccountURL)

	activationAPI := handler.NewActivationAPI(core, usage)
	adminAPI := handler.NewAdminAPI(db, usage, cfg.JWTSecret)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New())

	api := app.Group("/api/v1")

	// public activation protocol endpoint
	api.Get("/activations", activationAPI.HandleRequest)

	// operator surface
	auth := api.Group("/auth")
	auth.Post("/login", adminAPI.HandleLogin)

	licensesGroup := api.Group("/licenses")
	licensesGroup.Use(middleware.Auth(cfg.JWTSecret))
	licensesGroup.Get("/statistics", adminAPI.HandleStatistics)
	licensesGroup.Get("/:key", adminAPI.HandleGetLicense)
	licensesGroup.Get("/:key/usage", adminAPI.HandleLicenseUsage)

	log.Fatal(app.Listen(cfg.ListenAddr))
}
