package services

import (
	"strings"
	"testing"

	"github.com/magicalwebsite/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{email: "user@example.com", valid: true},
		{email: "a@b.c", valid: true},
		{email: "first.last+tag@sub.domain.org", valid: true},
		{email: "User@Example.COM", valid: true},
		{email: "plainaddress"},
		{email: "@example.com"},
		{email: "user@"},
		{email: "user@localhost"},
		{email: "a@b@c.com"},
		{email: ""},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			err := validateEmail(tt.email)

			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, models.ErrInvalidEmailFormat)
			}
		})
	}
}

func TestNormalizeDemoType(t *testing.T) {
	tests := []struct {
		name          string
		demoType      string
		expected      string
		expectedError error
	}{
		{name: "default label", demoType: "", expected: "unknown"},
		{name: "kept as is", demoType: "travel", expected: "travel"},
		{name: "max length", demoType: strings.Repeat("a", 50), expected: strings.Repeat("a", 50)},
		{name: "multibyte counted by character", demoType: strings.Repeat("旅", 50), expected: strings.Repeat("旅", 50)},
		{name: "too long", demoType: strings.Repeat("a", 51), expectedError: models.ErrDemoTypeTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeDemoType(tt.demoType)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
