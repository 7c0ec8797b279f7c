package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultGoogleVisionEndpoint is the images:annotate REST endpoint
const DefaultGoogleVisionEndpoint = "https://vision.googleapis.com/v1/images:annotate"

// GoogleVisionProvider implements OCR using Google Cloud Vision API
type GoogleVisionProvider struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewGoogleVisionProvider creates a new Google Vision OCR provider
func NewGoogleVisionProvider(apiKey, endpoint string, timeout time.Duration) *GoogleVisionProvider {
	if endpoint == "" {
		endpoint = DefaultGoogleVisionEndpoint
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GoogleVisionProvider{
		apiKey:   apiKey,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// GetProviderName returns the provider name
func (p *GoogleVisionProvider) GetProviderName() string {
	return "Google Cloud Vision"
}

type visionRequest struct {
	Requests []visionRequestItem `json:"requests"`
}

type visionRequestItem struct {
	Image        visionImage        `json:"image"`
	Features     []visionFeature    `json:"features"`
	ImageContext visionImageContext `json:"imageContext"`
}

type visionImage struct {
	Content string `json:"content"`
}

type visionFeature struct {
	Type string `json:"type"`
}

type visionImageContext struct {
	LanguageHints []string `json:"languageHints"`
}

type visionResponse struct {
	Responses []struct {
		TextAnnotations []struct {
			Description string `json:"description"`
		} `json:"textAnnotations"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error,omitempty"`
	} `json:"responses"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// ExtractText extracts text from image using Google Cloud Vision API
func (p *GoogleVisionProvider) ExtractText(ctx context.Context, image Image) Outcome {
	reqBody := visionRequest{
		Requests: []visionRequestItem{{
			Image:        visionImage{Content: base64.StdEncoding.EncodeToString(image.Data)},
			Features:     []visionFeature{{Type: "DOCUMENT_TEXT_DETECTION"}},
			ImageContext: visionImageContext{LanguageHints: []string{"en"}},
		}},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return TransportFailed(&TransportError{Provider: p.GetProviderName(), Op: "build request", Err: err})
	}

	target := fmt.Sprintf("%s?key=%s", p.endpoint, url.QueryEscape(p.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(jsonData))
	if err != nil {
		return TransportFailed(&TransportError{Provider: p.GetProviderName(), Op: "build request", Err: err})
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return TransportFailed(&TransportError{Provider: p.GetProviderName(), Op: "request", Err: err})
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return TransportFailed(&TransportError{Provider: p.GetProviderName(), Op: "read response", Err: err})
	}

	var parsed visionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return TransportFailed(&TransportError{Provider: p.GetProviderName(), Op: "decode response", Err: err})
	}

	// API-level errors (bad key, quota) come back with a non-200 status
	if parsed.Error != nil {
		return ProviderFailed(parsed.Error.Message, raw)
	}
	if resp.StatusCode != http.StatusOK {
		return TransportFailed(&TransportError{
			Provider: p.GetProviderName(),
			Op:       "request",
			Err:      fmt.Errorf("unexpected status %d", resp.StatusCode),
		})
	}

	if len(parsed.Responses) == 0 {
		return NoTextDetected(raw)
	}
	first := parsed.Responses[0]
	if first.Error != nil {
		return ProviderFailed(first.Error.Message, raw)
	}
	if len(first.TextAnnotations) == 0 {
		return NoTextDetected(raw)
	}

	// the first annotation holds the full page text
	return Succeeded(first.TextAnnotations[0].Description)
}
