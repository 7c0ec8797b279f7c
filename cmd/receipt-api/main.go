package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/receipt-ocr-be/internal/core/extract"
	"github.com/MuhamadAgungGumelar/receipt-ocr-be/internal/core/ocr"
	"github.com/MuhamadAgungGumelar/receipt-ocr-be/internal/modules/receipt/handlers"
	"github.com/MuhamadAgungGumelar/receipt-ocr-be/internal/modules/receipt/services"
	"github.com/MuhamadAgungGumelar/receipt-ocr-be/internal/shared/config"
	"github.com/MuhamadAgungGumelar/receipt-ocr-be/internal/shared/middleware"
	"github.com/MuhamadAgungGumelar/receipt-ocr-be/internal/shared/utils"

	_ "github.com/MuhamadAgungGumelar/receipt-ocr-be/cmd/receipt-api/docs"
)

// @title Receipt OCR API
// @version 1.0
// @description Extracts merchant, total and date from photographed receipts
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	// Load config
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.LogLevel, cfg.Env)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("❌ Invalid configuration")
	}

	// Init OCR service (multi-provider support)
	ocrProvider, err := services.NewOCRProvider(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize OCR provider")
	}
	ocrService := ocr.NewService(ocrProvider)

	// Keyword set is built once and shared read-only by every request
	engine := extract.NewEngine(extract.DefaultKeywordSet(cfg.MerchantKeywords...))
	scanService := services.NewScanService(ocrService, engine, cfg.OCRTimeout())

	utils.LogInfo("🔍 Using OCR provider", map[string]interface{}{
		"provider":          ocrService.GetProviderName(),
		"timeout":           cfg.OCRTimeout().String(),
		"merchant_keywords": engine.Keywords().Len(),
	})

	if cfg.IsProduction() && cfg.CORSAllowOrigins == "*" {
		utils.LogWarn("⚠️ CORS allows every origin", map[string]interface{}{"env": cfg.Env})
	}

	// Init handlers
	receiptHandler := handlers.NewReceiptHandler(scanService, int64(cfg.MaxUploadBytes()))
	healthHandler := handlers.NewHealthHandler(scanService)

	// Init Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Receipt OCR API",
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    cfg.MaxUploadBytes() + 1<<20,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
	}))

	// Swagger
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Routes
	handlers.Register(app, receiptHandler, healthHandler)

	log.Info().Msgf("✅ receipt-api running at :%s", cfg.Port)
	log.Info().Msgf("📄 Swagger UI: http://localhost:%s/swagger/", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("❌ Server stopped")
	}
}
