package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dd0wney/cluso-netwatch/pkg/telemetry"
)

// validate is a singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// AnalyzeRequest represents a request for a network behavior analysis.
// Only the envelope is validated here; per-field problems in telemetry
// records degrade to safe defaults downstream.
type AnalyzeRequest struct {
	TelemetryData []telemetry.RawEvent `json:"telemetry_data" validate:"required,min=1,max=10000"`
}

// ValidateAnalyzeRequest validates an analysis request envelope.
func ValidateAnalyzeRequest(req *AnalyzeRequest) error {
	if req == nil {
		return errors.New("analyze request cannot be nil")
	}

	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors into readable messages
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		messages := make([]string, 0, len(validationErrors))
		for _, fe := range validationErrors {
			messages = append(messages, fmt.Sprintf("%s: failed %q validation", fe.Field(), fe.Tag()))
		}
		return errors.New(strings.Join(messages, "; "))
	}
	return err
}
