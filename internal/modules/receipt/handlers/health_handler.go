package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/receipt-ocr-be/internal/modules/receipt/services"
)

type HealthHandler struct {
	scanService *services.ScanService
}

func NewHealthHandler(scanService *services.ScanService) *HealthHandler {
	return &HealthHandler{scanService: scanService}
}

// GetRoot godoc
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func (h *HealthHandler) GetRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "OCR backend running",
	})
}

// GetHealth godoc
// @Summary Service health check
// @Description Check if API is alive and which OCR provider is configured
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "ok",
		"service":  "receipt-api",
		"provider": h.scanService.GetProviderName(),
	})
}
