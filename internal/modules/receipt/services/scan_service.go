package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/receipt-ocr-be/internal/core/extract"
	"github.com/MuhamadAgungGumelar/receipt-ocr-be/internal/core/ocr"
)

// ScanResult is what one uploaded receipt produced. Receipt is only set
// when the OCR outcome succeeded.
type ScanResult struct {
	Provider string
	Outcome  ocr.Outcome
	Receipt  *extract.Result
}

// OK reports whether the scan produced an extraction result
func (r ScanResult) OK() bool {
	return r.Receipt != nil
}

// ScanService runs OCR and then field extraction on a receipt image
type ScanService struct {
	ocrService *ocr.Service
	engine     *extract.Engine
	timeout    time.Duration
}

// NewScanService creates a scan service. A zero timeout leaves the
// deadline to the caller's context and the provider's own client.
func NewScanService(ocrService *ocr.Service, engine *extract.Engine, timeout time.Duration) *ScanService {
	return &ScanService{
		ocrService: ocrService,
		engine:     engine,
		timeout:    timeout,
	}
}

// GetProviderName returns the OCR provider name
func (s *ScanService) GetProviderName() string {
	return s.ocrService.GetProviderName()
}

// Scan sends the image to the OCR provider once and extracts fields from
// the text on success. Failures are returned untouched.
func (s *ScanService) Scan(ctx context.Context, image ocr.Image) ScanResult {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	outcome := s.ocrService.ExtractText(ctx, image)
	result := ScanResult{Provider: s.ocrService.GetProviderName(), Outcome: outcome}

	if !outcome.OK() {
		log.Warn().
			Str("provider", result.Provider).
			Str("status", string(outcome.Status)).
			Str("message", outcome.Message).
			Err(outcome.Err).
			Dur("elapsed", time.Since(start)).
			Msg("⚠️ OCR failed")
		return result
	}

	receipt := s.engine.Extract(outcome.Text)
	result.Receipt = &receipt

	log.Info().
		Str("provider", result.Provider).
		Bool("merchant", receipt.Merchant != nil).
		Bool("total", receipt.Total != nil).
		Bool("date", receipt.Date != nil).
		Float64("confidence", receipt.Confidence).
		Dur("elapsed", time.Since(start)).
		Msg("🧾 Receipt extracted")

	return result
}

// ExtractText runs only the extraction engine over already recognized text
func (s *ScanService) ExtractText(text string) extract.Result {
	return s.engine.Extract(text)
}
