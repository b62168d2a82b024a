package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var (
	messages = map[string]string{
		"required":  "{field} is required",
		"gte":       "{field} must be greater than or equal to {param}",
		"lte":       "{field} must be less than or equal to {param}",
		"gt":        "{field} must be greater than {param}",
		"oneof":     "{field} must be one of {param}",
		"max":       "{field} must be less than or equal to {param}",
		"min":       "{field} must be greater than or equal to {param}",
		"email":     "{field} must be a valid email address",
		"uuid":      "{field} must be a valid UUID",
		"bloodtype": "{field} must be a blood type such as 1+ or 4-",
		"hourslot":  "{field} must be a whole-hour slot such as 09:00",
		"isodate":   "{field} must be a date in YYYY-MM-DD format",
	}
)

// message renders the first validation error using the field's json name.
func message(err error) string {
	var valErrors val.ValidationErrors

	if errors.As(err, &valErrors) {
		for _, valErr := range valErrors {
			template := messages[valErr.Tag()]
			if template == "" {
				continue
			}

			return strings.NewReplacer("{field}", valErr.Field(), "{param}", valErr.Param()).Replace(template)
		}

		return valErrors.Error()
	}

	return err.Error()
}
