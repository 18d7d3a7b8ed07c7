package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/bloodlink-api/internal/pkg/validate"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// checkRegistration validates a registration payload and reports the first
// failing class of problem: missing top-level fields, mismatched passwords,
// incomplete address, then format errors with one entry per field.
func checkRegistration(req interface{}, password, confirm string) error {
	err := validate.Struct(req)
	var vs validate.Violations
	if err != nil && !errors.As(err, &vs) {
		return fmt.Errorf("validate request: %w", err)
	}

	var missing, missingAddr, format []FieldError
	for _, x := range vs {
		fe := FieldError{Field: x.Field, Message: describe(x)}
		switch {
		case x.Tag == "required" && !x.Nested():
			missing = append(missing, fe)
		case x.Tag == "required":
			missingAddr = append(missingAddr, fe)
		default:
			format = append(format, fe)
		}
	}

	switch {
	case len(missing) > 0:
		return invalid("All fields are required", missing...)
	case password != confirm:
		return invalid("Passwords do not match")
	case len(missingAddr) > 0:
		return invalid("All address fields are required", missingAddr...)
	case len(format) > 0:
		return invalid("Invalid field values", format...)
	}
	return nil
}

func describe(x validate.Violation) string {
	switch x.Tag {
	case "required":
		return "is required"
	case "contact_email":
		return "is not a valid email"
	case "phone10":
		return "is not a valid phone number"
	case "bloodgroup":
		return "must be one of A+, A-, B+, B-, AB+, AB-, O+, O-"
	case "gte":
		return "must be at least " + x.Param
	case "gt":
		return "must be greater than " + x.Param
	case "min":
		return "must be at least " + x.Param + " characters"
	case "datetime":
		return "must use the format " + x.Param
	case "numeric":
		return "must contain only digits"
	case "len":
		return "must be " + x.Param + " characters long"
	}
	return "is invalid"
}

func parseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, invalid("Invalid field values", FieldError{Field: field, Message: "must use the format " + dateLayout})
	}
	return t.UTC(), nil
}
