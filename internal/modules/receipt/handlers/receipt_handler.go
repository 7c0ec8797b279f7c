package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/receipt-ocr-be/internal/core/extract"
	"github.com/MuhamadAgungGumelar/receipt-ocr-be/internal/core/ocr"
	"github.com/MuhamadAgungGumelar/receipt-ocr-be/internal/modules/receipt/services"
)

// Upload form fields, "receipt" first
var uploadFields = []string{"receipt", "file"}

var allowedContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"image/gif":       true,
	"image/bmp":       true,
	"image/tiff":      true,
	"image/webp":      true,
	"application/pdf": true,
}

// ReceiptHandler handles receipt uploads
type ReceiptHandler struct {
	scanService    *services.ScanService
	maxUploadBytes int64
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(scanService *services.ScanService, maxUploadBytes int64) *ReceiptHandler {
	return &ReceiptHandler{
		scanService:    scanService,
		maxUploadBytes: maxUploadBytes,
	}
}

// ReceiptResponse is the extraction record returned on success
type ReceiptResponse struct {
	Success    bool         `json:"success" example:"true"`
	Filename   string       `json:"filename" example:"receipt.jpg"`
	Provider   string       `json:"provider" example:"OCR.space"`
	Merchant   *string      `json:"merchant" example:"WALMART"`
	Total      *json.Number `json:"total" swaggertype:"number" example:"12.50"`
	Date       *string      `json:"date" example:"2023-12-25"`
	Confidence float64      `json:"confidence" example:"0.95"`
	RawText    string       `json:"raw_text"`
}

// ErrorResponse is returned for rejected uploads and OCR failures
type ErrorResponse struct {
	Success     bool            `json:"success" example:"false"`
	Error       string          `json:"error" example:"provider error"`
	Message     string          `json:"message,omitempty" example:"Invalid API key"`
	Filename    string          `json:"filename,omitempty"`
	Provider    string          `json:"provider,omitempty"`
	RawResponse json.RawMessage `json:"raw_response,omitempty" swaggertype:"object"`
}

// ScanReceipt godoc
// @Summary Extract merchant, total and date from a receipt image
// @Description Upload a receipt image, extract text using OCR and parse merchant name, total amount and transaction date
// @Tags OCR
// @Accept multipart/form-data
// @Produce json
// @Param receipt formData file true "Receipt image file (field name receipt or file)"
// @Success 200 {object} ReceiptResponse
// @Failure 400 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 415 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 504 {object} ErrorResponse
// @Router /ocr [post]
func (h *ReceiptHandler) ScanReceipt(c *fiber.Ctx) error {
	file, err := formFile(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "receipt file is required",
		})
	}

	if h.maxUploadBytes > 0 && file.Size > h.maxUploadBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(ErrorResponse{
			Error:    "file too large",
			Message:  fmt.Sprintf("file size must not exceed %.1fMB", float64(h.maxUploadBytes)/(1<<20)),
			Filename: file.Filename,
		})
	}

	fileHandle, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("❌ Failed to open file")
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to read image file",
		})
	}
	defer fileHandle.Close()

	imageData, err := io.ReadAll(fileHandle)
	if err != nil {
		log.Error().Err(err).Msg("❌ Failed to read file data")
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to read image file",
		})
	}
	if len(imageData) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:    "receipt file is empty",
			Filename: file.Filename,
		})
	}

	contentType := resolveContentType(file.Header.Get(fiber.HeaderContentType), imageData)
	if !allowedContentTypes[contentType] {
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(ErrorResponse{
			Error:    "unsupported file type",
			Message:  contentType,
			Filename: file.Filename,
		})
	}

	log.Info().
		Str("filename", file.Filename).
		Str("content_type", contentType).
		Float64("size_kb", float64(len(imageData))/1024).
		Msg("📸 Processing receipt image")

	result := h.scanService.Scan(c.UserContext(), ocr.Image{
		Data:        imageData,
		Filename:    file.Filename,
		ContentType: contentType,
	})

	if !result.OK() {
		return c.Status(FailureStatus(result.Outcome)).JSON(NewFailureResponse(file.Filename, result.Provider, result.Outcome))
	}

	return c.JSON(NewReceiptResponse(file.Filename, result.Provider, *result.Receipt))
}

// NewReceiptResponse renders an extraction result
func NewReceiptResponse(filename, provider string, receipt extract.Result) ReceiptResponse {
	resp := ReceiptResponse{
		Success:    true,
		Filename:   filename,
		Provider:   provider,
		Merchant:   receipt.Merchant,
		Confidence: receipt.Confidence,
		RawText:    receipt.RawText,
	}
	if receipt.Total != nil {
		total := json.Number(receipt.Total.StringFixed(2))
		resp.Total = &total
	}
	if receipt.Date != nil {
		date := receipt.DateString()
		resp.Date = &date
	}
	return resp
}

// NewFailureResponse renders a failed OCR outcome
func NewFailureResponse(filename, provider string, outcome ocr.Outcome) ErrorResponse {
	return ErrorResponse{
		Error:       outcome.Reason,
		Message:     outcome.Message,
		Filename:    filename,
		Provider:    provider,
		RawResponse: outcome.Payload,
	}
}

// FailureStatus maps an OCR failure onto an HTTP status
func FailureStatus(outcome ocr.Outcome) int {
	switch outcome.Status {
	case ocr.StatusNoText:
		return fiber.StatusUnprocessableEntity
	case ocr.StatusTransportError:
		if outcome.Timeout() {
			return fiber.StatusGatewayTimeout
		}
		return fiber.StatusBadGateway
	default:
		return fiber.StatusBadGateway
	}
}

func formFile(c *fiber.Ctx) (*multipart.FileHeader, error) {
	var err error
	for _, field := range uploadFields {
		var file *multipart.FileHeader
		if file, err = c.FormFile(field); err == nil {
			return file, nil
		}
	}
	return nil, err
}

// resolveContentType trusts the part header unless it is missing or generic
func resolveContentType(header string, data []byte) string {
	contentType := strings.ToLower(strings.TrimSpace(header))
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
		if i := strings.IndexByte(contentType, ';'); i >= 0 {
			contentType = contentType[:i]
		}
	}
	return contentType
}
