package wizard

import (
	"fmt"
	"regexp"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9(][0-9\-() ]{3,18}[0-9]$`)

// RequireNonEmpty returns a violation when value is empty.
func RequireNonEmpty(field, value string) *Violation {
	if value == "" {
		v := FieldViolation(field, field+" is required")
		return &v
	}
	return nil
}

// RequirePositive returns a violation when value is not strictly positive.
func RequirePositive(field string, value float64) *Violation {
	if value <= 0 {
		v := FieldViolation(field, field+" must be positive")
		return &v
	}
	return nil
}

// RequireRange returns a violation when value is outside [min, max].
func RequireRange(field string, value, min, max float64) *Violation {
	if value < min || value > max {
		v := FieldViolation(field, fmt.Sprintf("%s must be between %g and %g", field, min, max))
		return &v
	}
	return nil
}

// RequirePhone returns a violation when the phone number is malformed.
func RequirePhone(field, phone string) *Violation {
	if phone == "" {
		v := FieldViolation(field, field+" is required")
		return &v
	}
	if !phonePattern.MatchString(phone) {
		v := FieldViolation(field, "malformed phone number")
		return &v
	}
	return nil
}

// Collect gathers the non-nil violations of a whole submission so the caller
// receives every failed check at once.
func Collect(vs ...*Violation) []Violation {
	var out []Violation
	for _, v := range vs {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}
