package services

import (
	"strings"
	"unicode/utf8"

	"github.com/magicalwebsite/backend/internal/models"
)

// validateEmail performs the structural email check: exactly one "@",
// non-empty local and domain parts and a "." in the domain
func validateEmail(email string) error {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domain, "@") {
		return models.ErrInvalidEmailFormat
	}
	if local == "" || domain == "" {
		return models.ErrInvalidEmailFormat
	}
	if !strings.Contains(domain, ".") {
		return models.ErrInvalidEmailFormat
	}
	return nil
}

// normalizeDemoType applies the default label and the length bound
func normalizeDemoType(demoType string) (string, error) {
	if demoType == "" {
		return models.DefaultDemoType, nil
	}
	if utf8.RuneCountInString(demoType) > models.MaxDemoTypeLength {
		return "", models.ErrDemoTypeTooLong
	}
	return demoType, nil
}
