package utils

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
)

// DecodeValidate unmarshals a JSON response body into body and checks
// that all required fields are set.
func DecodeValidate(r io.Reader, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		return fmt.Errorf("body is invalid json: %w", err)
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(body); err != nil {
		return fmt.Errorf("required fields missing: %w", err)
	}
	return nil
}
