package helper

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// FormatValidationErrors turns validator errors into a field->message map so
// clients always get the complete set of violations in one response.
func FormatValidationErrors(err error) map[string]string {
	out := map[string]string{}
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := strings.ToLower(e.Field()[:1]) + e.Field()[1:]
			switch e.Tag() {
			case "required":
				out[field] = field + " is required"
			case "email":
				out[field] = field + " must be a valid email"
			case "min":
				out[field] = field + " must be at least " + e.Param() + " characters"
			case "max":
				out[field] = field + " must be at most " + e.Param() + " characters"
			case "oneof":
				out[field] = field + " must be one of: " + e.Param()
			case "len":
				out[field] = field + " must have exactly " + e.Param() + " entries"
			case "gte":
				out[field] = field + " must be at least " + e.Param()
			case "lte":
				out[field] = field + " must be at most " + e.Param()
			default:
				out[field] = field + " is invalid"
			}
		}
		return out
	}
	out["request"] = err.Error()
	return out
}
