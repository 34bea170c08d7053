package roast

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrMissingVerdict is returned when a result payload has no verdict object
var ErrMissingVerdict = errors.New("analysis result has no verdict")

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// DecodeResult parses and validates an analysis result payload.
// Unknown fields are ignored; a missing verdict, an out of range score or an
// unknown risk tier rejects the payload.
func DecodeResult(raw []byte) (*AnalysisResult, error) {
	var presence struct {
		Verdict json.RawMessage `json:"verdict"`
	}
	if err := json.Unmarshal(raw, &presence); err != nil {
		return nil, fmt.Errorf("decode analysis result: %w", err)
	}
	if len(presence.Verdict) == 0 || bytes.Equal(presence.Verdict, []byte("null")) {
		return nil, ErrMissingVerdict
	}

	var result AnalysisResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode analysis result: %w", err)
	}

	if err := Validate(&result); err != nil {
		return nil, err
	}

	return &result, nil
}

// Validate checks result against the analysis schema
func Validate(result *AnalysisResult) error {
	if result == nil {
		return errors.New("analysis result is nil")
	}
	if err := getValidator().Struct(result); err != nil {
		return fmt.Errorf("invalid analysis result: %w", err)
	}
	return nil
}

// CompactContext returns the compact JSON form of a result payload, which is
// what the service expects back as conversation context.
func CompactContext(raw []byte) (string, error) {
	var b bytes.Buffer
	if err := json.Compact(&b, raw); err != nil {
		return "", fmt.Errorf("compact analysis context: %w", err)
	}
	return b.String(), nil
}
