package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Register mounts the receipt routes on app
func Register(app fiber.Router, receipt *ReceiptHandler, health *HealthHandler) {
	app.Get("/", health.GetRoot)
	app.Get("/health", health.GetHealth)

	app.Post("/ocr", receipt.ScanReceipt)
}

// ErrorHandler renders unhandled errors and recovered panics as JSON
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	msg := fiber.ErrInternalServerError.Message
	if code != fiber.StatusInternalServerError {
		msg = err.Error()
	}
	return c.Status(code).JSON(ErrorResponse{Error: msg})
}
