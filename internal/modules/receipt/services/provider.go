package services

import (
	"fmt"

	"github.com/MuhamadAgungGumelar/receipt-ocr-be/internal/core/ocr"
	"github.com/MuhamadAgungGumelar/receipt-ocr-be/internal/shared/config"
)

// NewOCRProvider builds the provider selected by OCR_PROVIDER
func NewOCRProvider(cfg *config.Config) (ocr.Provider, error) {
	switch cfg.OCRProvider {
	case config.ProviderOCRSpace:
		return ocr.NewOCRSpaceProvider(cfg.OCRSpaceAPIKey,
			ocr.WithEndpoint(cfg.OCRSpaceEndpoint),
			ocr.WithLanguage(cfg.OCRLanguage),
			ocr.WithTimeout(cfg.OCRTimeout()),
		), nil
	case config.ProviderTesseract:
		return ocr.NewTesseractProvider(cfg.TesseractPath, cfg.OCRLanguage), nil
	case config.ProviderGoogleVision:
		return ocr.NewGoogleVisionProvider(cfg.GoogleVisionAPIKey, cfg.GoogleVisionURL, cfg.OCRTimeout()), nil
	default:
		return nil, fmt.Errorf("unknown OCR provider %q", cfg.OCRProvider)
	}
}
