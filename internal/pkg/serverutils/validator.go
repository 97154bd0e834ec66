package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"profile-concierge-be/pkg/convo"
)

var validate = validator.New()

// ValidateRequest checks a DTO against its validate tags and folds the
// failures into one ErrValidation so the error middleware maps it to 400.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%w: %s", convo.ErrValidation, err.Error())
	}

	var fields []string
	for _, fieldErr := range validationErrors {
		fields = append(fields, fmt.Sprintf("%s (%s)", strings.ToLower(fieldErr.Field()), fieldErr.Tag()))
	}
	return fmt.Errorf("%w: %s", convo.ErrValidation, strings.Join(fields, ", "))
}
