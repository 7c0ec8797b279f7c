package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultOCRSpaceEndpoint is the public OCR.space parse endpoint
	DefaultOCRSpaceEndpoint = "https://api.ocr.space/parse/image"
	// DefaultLanguage is the only OCR language we request
	DefaultLanguage = "eng"

	maxResponseBytes = 8 << 20
)

// OCRSpaceProvider implements OCR using OCR.space API
type OCRSpaceProvider struct {
	apiKey   string
	endpoint string
	language string
	client   *http.Client
}

// OCRSpaceOption customizes an OCRSpaceProvider
type OCRSpaceOption func(*OCRSpaceProvider)

// WithEndpoint overrides the parse endpoint URL
func WithEndpoint(endpoint string) OCRSpaceOption {
	return func(p *OCRSpaceProvider) {
		if endpoint != "" {
			p.endpoint = endpoint
		}
	}
}

// WithLanguage overrides the OCR language code
func WithLanguage(language string) OCRSpaceOption {
	return func(p *OCRSpaceProvider) {
		if language != "" {
			p.language = language
		}
	}
}

// WithTimeout bounds the whole outbound call
func WithTimeout(timeout time.Duration) OCRSpaceOption {
	return func(p *OCRSpaceProvider) {
		if timeout > 0 {
			p.client.Timeout = timeout
		}
	}
}

// NewOCRSpaceProvider creates a new OCR.space provider
func NewOCRSpaceProvider(apiKey string, opts ...OCRSpaceOption) *OCRSpaceProvider {
	p := &OCRSpaceProvider{
		apiKey:   apiKey,
		endpoint: DefaultOCRSpaceEndpoint,
		language: DefaultLanguage,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetProviderName returns the provider name
func (p *OCRSpaceProvider) GetProviderName() string {
	return "OCR.space"
}

// ocrSpaceResponse mirrors the OCR.space payload. ParsedResults and
// ErrorMessage change shape between API versions, so they stay raw until
// classify looks at them.
type ocrSpaceResponse struct {
	ParsedResults         json.RawMessage `json:"ParsedResults"`
	OCRExitCode           json.RawMessage `json:"OCRExitCode"`
	IsErroredOnProcessing flexBool        `json:"IsErroredOnProcessing"`
	ErrorMessage          json.RawMessage `json:"ErrorMessage"`
	ErrorDetails          json.RawMessage `json:"ErrorDetails"`
}

type ocrSpaceParsedResult struct {
	ParsedText   string          `json:"ParsedText"`
	ErrorMessage json.RawMessage `json:"ErrorMessage"`
}

// ExtractText extracts text from image using OCR.space API
func (p *OCRSpaceProvider) ExtractText(ctx context.Context, image Image) Outcome {
	body, contentType, err := p.buildForm(image)
	if err != nil {
		return TransportFailed(&TransportError{Provider: p.GetProviderName(), Op: "build request", Err: err})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, body)
	if err != nil {
		return TransportFailed(&TransportError{Provider: p.GetProviderName(), Op: "build request", Err: err})
	}
	req.Header.Set("Content-Type", contentType)

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return TransportFailed(&TransportError{Provider: p.GetProviderName(), Op: "request", Err: err})
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return TransportFailed(&TransportError{Provider: p.GetProviderName(), Op: "read response", Err: err})
	}

	log.Debug().
		Str("provider", p.GetProviderName()).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("🔍 OCR response received")

	var parsed ocrSpaceResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		if resp.StatusCode != http.StatusOK {
			err = fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(raw), 200))
		}
		return TransportFailed(&TransportError{Provider: p.GetProviderName(), Op: "decode response", Err: err})
	}

	if resp.StatusCode != http.StatusOK && !bool(parsed.IsErroredOnProcessing) {
		return TransportFailed(&TransportError{
			Provider: p.GetProviderName(),
			Op:       "request",
			Err:      fmt.Errorf("unexpected status %d", resp.StatusCode),
		})
	}

	return parsed.classify(raw)
}

func (p *OCRSpaceProvider) buildForm(image Image) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	filename := image.Filename
	if filename == "" {
		filename = "receipt.jpg"
	}
	contentType := image.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(filename)))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(image.Data); err != nil {
		return nil, "", fmt.Errorf("failed to write image data: %w", err)
	}

	if err := writer.WriteField("apikey", p.apiKey); err != nil {
		return nil, "", fmt.Errorf("failed to write api key: %w", err)
	}
	if err := writer.WriteField("language", p.language); err != nil {
		return nil, "", fmt.Errorf("failed to write language: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close writer: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}

// classify maps a decoded payload onto exactly one Outcome variant
func (r ocrSpaceResponse) classify(raw json.RawMessage) Outcome {
	if r.IsErroredOnProcessing {
		msg := joinMessages(r.ErrorMessage)
		if msg == "" {
			msg = joinMessages(r.ErrorDetails)
		}
		return ProviderFailed(msg, raw)
	}

	var results []ocrSpaceParsedResult
	if len(r.ParsedResults) == 0 || json.Unmarshal(r.ParsedResults, &results) != nil || len(results) == 0 {
		return NoTextDetected(raw)
	}

	// receipts are single page, only the first result is used
	return Succeeded(results[0].ParsedText)
}

// flexBool accepts true/false, "true"/"false" and 1/0
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.ToLower(strings.TrimSpace(string(data))), `"`)
	switch s {
	case "true", "1", "yes":
		*b = true
	default:
		*b = false
	}
	return nil
}

// joinMessages flattens a string or list-of-strings error field
func joinMessages(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return strings.TrimSpace(single)
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return strings.TrimSpace(strings.Join(many, "; "))
	}
	return ""
}

func escapeQuotes(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
