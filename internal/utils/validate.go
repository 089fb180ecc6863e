package utils

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/cuanbot-engine/pkg/errors"
)

var validate = validator.New()

// ValidateStruct runs the struct's `validate` tags and reports every failed
// field as one InvalidParameter error.
func ValidateStruct(target any) error {
	err := validate.Struct(target)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !stderrors.As(err, &validationErrors) {
		return errors.Wrap(errors.ErrCodeInvalidParameter, "validation failed", err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		messages = append(messages, describeFieldError(fieldErr))
	}

	return errors.Wrap(errors.ErrCodeInvalidParameter, strings.Join(messages, "; "), err)
}

func describeFieldError(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fieldErr.Namespace())
	case "ltfield":
		return fmt.Sprintf("%s must be less than %s", fieldErr.Namespace(), fieldErr.Param())
	case "gtfield":
		return fmt.Sprintf("%s must be greater than %s", fieldErr.Namespace(), fieldErr.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %v", fieldErr.Namespace(), fieldErr.Param(), fieldErr.Value())
	default:
		return fmt.Sprintf("%s must satisfy %s=%s, got %v", fieldErr.Namespace(), fieldErr.Tag(), fieldErr.Param(), fieldErr.Value())
	}
}
