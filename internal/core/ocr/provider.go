package ocr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
)

// Provider interface for OCR services
type Provider interface {
	// ExtractText sends one image to the provider. Failures are reported
	// through the returned Outcome, never as a panic.
	ExtractText(ctx context.Context, image Image) Outcome

	// GetProviderName returns the provider name
	GetProviderName() string
}

// Image is the upload handed to a provider
type Image struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Status tags the variant held by an Outcome
type Status string

const (
	StatusSuccess        Status = "success"
	StatusProviderError  Status = "provider_error"
	StatusNoText         Status = "no_text"
	StatusTransportError Status = "transport_error"
)

// Failure reasons, one per failure variant
const (
	ReasonProviderError  = "provider error"
	ReasonNoText         = "no text detected"
	ReasonTransportError = "transport error"
)

// Outcome is the result of one OCR call: either recognized text or a
// failure with the reason and whatever the provider sent back.
type Outcome struct {
	Status  Status
	Text    string
	Reason  string
	Message string
	Payload json.RawMessage
	Err     error
}

// Succeeded wraps recognized text
func Succeeded(text string) Outcome {
	return Outcome{Status: StatusSuccess, Text: text}
}

// ProviderFailed is returned when the provider flags its own processing error
func ProviderFailed(message string, payload json.RawMessage) Outcome {
	if message == "" {
		message = "unknown error"
	}
	return Outcome{
		Status:  StatusProviderError,
		Reason:  ReasonProviderError,
		Message: message,
		Payload: payload,
	}
}

// NoTextDetected is returned when the provider succeeded but gave no result list
func NoTextDetected(payload json.RawMessage) Outcome {
	return Outcome{
		Status:  StatusNoText,
		Reason:  ReasonNoText,
		Message: ReasonNoText,
		Payload: payload,
	}
}

// TransportFailed wraps network, timeout and decoding faults
func TransportFailed(err error) Outcome {
	return Outcome{
		Status:  StatusTransportError,
		Reason:  ReasonTransportError,
		Message: err.Error(),
		Err:     err,
	}
}

// OK reports whether the outcome carries text
func (o Outcome) OK() bool {
	return o.Status == StatusSuccess
}

// Timeout reports whether a transport failure was caused by a deadline
func (o Outcome) Timeout() bool {
	if o.Status != StatusTransportError || o.Err == nil {
		return false
	}
	if errors.Is(o.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(o.Err, &netErr) && netErr.Timeout()
}

// TransportError describes a fault talking to the provider
type TransportError struct {
	Provider string
	Op       string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Service wraps the OCR provider
type Service struct {
	provider Provider
}

// NewService creates a new OCR service with the given provider
func NewService(provider Provider) *Service {
	return &Service{provider: provider}
}

// ExtractText extracts text from image using the configured provider.
// A panicking provider is turned into a transport failure.
func (s *Service) ExtractText(ctx context.Context, image Image) (outcome Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			outcome = TransportFailed(&TransportError{
				Provider: s.provider.GetProviderName(),
				Op:       "extract",
				Err:      fmt.Errorf("recovered: %v", rec),
			})
		}
	}()
	return s.provider.ExtractText(ctx, image)
}

// GetProviderName returns the name of the current provider
func (s *Service) GetProviderName() string {
	return s.provider.GetProviderName()
}
