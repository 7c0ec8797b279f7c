package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/receipt-ocr-be/internal/core/extract"
	"github.com/MuhamadAgungGumelar/receipt-ocr-be/internal/core/ocr"
	"github.com/MuhamadAgungGumelar/receipt-ocr-be/internal/modules/receipt/handlers"
	"github.com/MuhamadAgungGumelar/receipt-ocr-be/internal/modules/receipt/services"
	"github.com/MuhamadAgungGumelar/receipt-ocr-be/internal/shared/config"
	"github.com/MuhamadAgungGumelar/receipt-ocr-be/internal/shared/utils"
)

func main() {
	cfg := config.LoadConfig()

	fs := ff.NewFlagSet("receipt-scan")
	var (
		textPath  = fs.StringLong("text", "", "OCR text file to extract from ('-' for stdin)")
		imagePath = fs.StringLong("image", "", "Receipt image to send through the OCR provider")
		provider  = fs.StringLong("provider", cfg.OCRProvider, "OCR provider: ocrspace, tesseract or googlevision")
		apiKey    = fs.StringLong("api-key", "", "API key for the selected provider (overrides the env config)")
		keywords  = fs.StringLong("keywords", strings.Join(cfg.MerchantKeywords, ","), "Extra merchant keywords, comma separated")
		timeout   = fs.DurationLong("timeout", cfg.OCRTimeout(), "Upper bound on the OCR call")
		logLevel  = fs.StringLong("log-level", "warn", "Log level")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPT"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	utils.InitLogger(*logLevel, cfg.Env)

	if (*textPath == "") == (*imagePath == "") {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintln(os.Stderr, "error: exactly one of --text or --image is required")
		os.Exit(2)
	}

	cfg.OCRProvider = strings.ToLower(*provider)
	cfg.OCRTimeoutSeconds = int(timeout.Seconds())
	if *apiKey != "" {
		cfg.OCRSpaceAPIKey = *apiKey
		cfg.GoogleVisionAPIKey = *apiKey
	}

	engine := extract.NewEngine(extract.DefaultKeywordSet(splitKeywords(*keywords)...))

	var out any
	exitCode := 0
	if *textPath != "" {
		text, err := readText(*textPath)
		if err != nil {
			utils.LogError("❌ Failed to read text", err, map[string]interface{}{"path": *textPath})
			os.Exit(1)
		}
		out = handlers.NewReceiptResponse(filepath.Base(*textPath), "", engine.Extract(text))
	} else {
		if err := cfg.Validate(); err != nil {
			log.Fatal().Err(err).Msg("❌ Invalid configuration")
		}
		ocrProvider, err := services.NewOCRProvider(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("❌ Failed to initialize OCR provider")
		}
		scanService := services.NewScanService(ocr.NewService(ocrProvider), engine, *timeout)

		data, err := os.ReadFile(*imagePath)
		if err != nil {
			utils.LogError("❌ Failed to read image", err, map[string]interface{}{"path": *imagePath})
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		filename := filepath.Base(*imagePath)
		result := scanService.Scan(ctx, ocr.Image{
			Data:        data,
			Filename:    filename,
			ContentType: http.DetectContentType(data),
		})
		if result.OK() {
			out = handlers.NewReceiptResponse(filename, result.Provider, *result.Receipt)
		} else {
			out = handlers.NewFailureResponse(filename, result.Provider, result.Outcome)
			exitCode = 1
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		utils.LogError("❌ Failed to write result", err, nil)
		os.Exit(1)
	}
	os.Exit(exitCode)
}

func readText(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

func splitKeywords(raw string) []string {
	var out []string
	for _, kw := range strings.Split(raw, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

