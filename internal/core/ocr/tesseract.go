package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// TesseractProvider implements OCR using a local Tesseract binary
type TesseractProvider struct {
	tesseractPath string
	language      string
}

// NewTesseractProvider creates a new Tesseract OCR provider.
// An empty path resolves "tesseract" from PATH.
func NewTesseractProvider(tesseractPath, language string) *TesseractProvider {
	if tesseractPath == "" {
		tesseractPath = "tesseract"
	}
	if language == "" {
		language = DefaultLanguage
	}
	return &TesseractProvider{
		tesseractPath: tesseractPath,
		language:      language,
	}
}

// ExtractText writes the image to a temp file and runs
// `tesseract <image> stdout -l <lang>`.
func (p *TesseractProvider) ExtractText(ctx context.Context, image Image) Outcome {
	ext := filepath.Ext(image.Filename)
	if ext == "" {
		ext = ".img"
	}
	tmp, err := os.CreateTemp("", "receipt-*"+ext)
	if err != nil {
		return TransportFailed(&TransportError{Provider: p.GetProviderName(), Op: "write temp image", Err: err})
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(image.Data); err != nil {
		tmp.Close()
		return TransportFailed(&TransportError{Provider: p.GetProviderName(), Op: "write temp image", Err: err})
	}
	if err := tmp.Close(); err != nil {
		return TransportFailed(&TransportError{Provider: p.GetProviderName(), Op: "write temp image", Err: err})
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.tesseractPath, tmp.Name(), "stdout", "-l", p.language)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			payload, _ := json.Marshal(map[string]any{
				"exit_code": exitErr.ExitCode(),
				"stderr":    strings.TrimSpace(stderr.String()),
			})
			return ProviderFailed(strings.TrimSpace(stderr.String()), payload)
		}
		if ctx.Err() != nil {
			err = fmt.Errorf("%w: %v", ctx.Err(), err)
		}
		return TransportFailed(&TransportError{Provider: p.GetProviderName(), Op: "run", Err: err})
	}

	text := strings.TrimSpace(stdout.String())
	if text == "" {
		return NoTextDetected(nil)
	}
	return Succeeded(text)
}

// GetProviderName returns the name of the provider
func (p *TesseractProvider) GetProviderName() string {
	return "Tesseract OCR"
}
