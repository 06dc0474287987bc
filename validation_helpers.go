package vecino

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// FormatValidationErrorToMap flattens an ozzo validation error into a
// field -> message map for template rendering.
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, ferr := range verrs {
			if ferr != nil {
				out[field] = ferr.Error()
			}
		}
		return out
	}

	out["form"] = err.Error()
	return out
}
