package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Supported OCR_PROVIDER values
const (
	ProviderOCRSpace     = "ocrspace"
	ProviderTesseract    = "tesseract"
	ProviderGoogleVision = "googlevision"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string

	OCRProvider        string
	OCRSpaceAPIKey     string
	OCRSpaceEndpoint   string
	OCRLanguage        string
	OCRTimeoutSeconds  int
	GoogleVisionAPIKey string
	GoogleVisionURL    string
	TesseractPath      string
	MaxUploadMB        int
	MerchantKeywords   []string
	CORSAllowOrigins   string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("⚠️ .env file not found, using system environment variables")
	}
	return FromEnv()
}

// FromEnv builds the config from the process environment only
func FromEnv() *Config {
	cfg := &Config{
		Port:               os.Getenv("PORT"),
		Env:                os.Getenv("ENV"),
		LogLevel:           os.Getenv("LOG_LEVEL"),
		OCRProvider:        strings.ToLower(strings.TrimSpace(os.Getenv("OCR_PROVIDER"))),
		OCRSpaceAPIKey:     os.Getenv("OCR_SPACE_API_KEY"),
		OCRSpaceEndpoint:   os.Getenv("OCR_SPACE_ENDPOINT"),
		OCRLanguage:        os.Getenv("OCR_LANGUAGE"),
		OCRTimeoutSeconds:  intEnv("OCR_TIMEOUT_SECONDS", 30),
		GoogleVisionAPIKey: os.Getenv("GOOGLE_VISION_API_KEY"),
		GoogleVisionURL:    os.Getenv("GOOGLE_VISION_ENDPOINT"),
		TesseractPath:      os.Getenv("TESSERACT_PATH"),
		MaxUploadMB:        intEnv("MAX_UPLOAD_MB", 10),
		MerchantKeywords:   splitList(os.Getenv("MERCHANT_KEYWORDS")),
		CORSAllowOrigins:   os.Getenv("CORS_ALLOW_ORIGINS"),
	}

	// Default values
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.OCRProvider == "" {
		cfg.OCRProvider = ProviderOCRSpace
	}
	if cfg.OCRSpaceEndpoint == "" {
		cfg.OCRSpaceEndpoint = "https://api.ocr.space/parse/image"
	}
	if cfg.OCRLanguage == "" {
		cfg.OCRLanguage = "eng"
	}
	if cfg.TesseractPath == "" {
		cfg.TesseractPath = "tesseract"
	}
	if cfg.CORSAllowOrigins == "" {
		cfg.CORSAllowOrigins = "*"
	}

	return cfg
}

// Validate checks that the selected provider can actually be called
func (c *Config) Validate() error {
	var errs []error
	switch c.OCRProvider {
	case ProviderOCRSpace:
		if c.OCRSpaceAPIKey == "" {
			errs = append(errs, errors.New("OCR_SPACE_API_KEY is required for the ocrspace provider"))
		}
	case ProviderGoogleVision:
		if c.GoogleVisionAPIKey == "" {
			errs = append(errs, errors.New("GOOGLE_VISION_API_KEY is required for the googlevision provider"))
		}
	case ProviderTesseract:
	default:
		errs = append(errs, fmt.Errorf("unknown OCR_PROVIDER %q", c.OCRProvider))
	}
	if c.OCRTimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("OCR_TIMEOUT_SECONDS must be positive, got %d", c.OCRTimeoutSeconds))
	}
	if c.MaxUploadMB <= 0 {
		errs = append(errs, fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether ENV is production
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// OCRTimeout is the upper bound on one outbound OCR call
func (c *Config) OCRTimeout() time.Duration {
	return time.Duration(c.OCRTimeoutSeconds) * time.Second
}

// MaxUploadBytes is the request body limit for uploads
func (c *Config) MaxUploadBytes() int {
	return c.MaxUploadMB << 20
}

func intEnv(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("⚠️ Invalid integer, using default")
		return fallback
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
