package utils

import (
	"fmt"
	"regexp"
	"time"
)

var (
	emailRegex   = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)
)

// ValidateEmail validates an email address
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

// ValidateCompanyID validates a tenant identifier. Zero, negative and
// unparseable values are all rejected the same way so callers can treat
// them uniformly as a missing session.
func ValidateCompanyID(companyID int64) error {
	if companyID <= 0 {
		return fmt.Errorf("invalid company id: %d", companyID)
	}
	return nil
}

// ValidateRequiredDate validates that a server-required date is present
func ValidateRequiredDate(name string, t *time.Time) error {
	if t == nil || t.IsZero() {
		return fmt.Errorf("%s is required", name)
	}
	return nil
}

// SanitizeString removes control characters from user input
func SanitizeString(s string) string {
	return controlChars.ReplaceAllString(s, "")
}
