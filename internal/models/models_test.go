package models

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowance_JSON(t *testing.T) {
	tests := []struct {
		name      string
		allowance Allowance
		expected  string
	}{
		{name: "unlimited", allowance: Allowance{Unlimited: true}, expected: `"unlimited"`},
		{name: "count", allowance: Allowance{Count: 3}, expected: `3`},
		{name: "zero", allowance: Allowance{}, expected: `0`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.allowance)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(data))

			var decoded Allowance
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, tt.allowance, decoded)
		})
	}

	var a Allowance
	assert.Error(t, json.Unmarshal([]byte(`true`), &a))
}

func TestNewUserResponse(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("regular user", func(t *testing.T) {
		u := &User{ID: 2, Email: "u@b.co", PasswordHash: "secret", Role: RoleUser, DemoCount: 3, CreatedAt: created, UpdatedAt: created}

		resp := NewUserResponse(u)

		assert.Equal(t, Allowance{Count: 3}, resp.TrialCount)
		assert.False(t, resp.IsAdmin)
		assert.Equal(t, RoleUser, resp.Role)

		data, err := json.Marshal(resp)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "secret")
	})

	t.Run("admin", func(t *testing.T) {
		resp := NewUserResponse(&User{ID: 1, Role: RoleAdmin, DemoCount: 5})

		assert.Equal(t, Allowance{Unlimited: true}, resp.TrialCount)
		assert.True(t, resp.IsAdmin)
	})
}

func TestRole_IsValid(t *testing.T) {
	assert.True(t, RoleUser.IsValid())
	assert.True(t, RoleAdmin.IsValid())
	assert.False(t, Role("superuser").IsValid())
	assert.False(t, Role("").IsValid())
}

func TestErrorKindOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorKind
	}{
		{name: "validation", err: ErrInvalidEmailFormat, expected: KindValidation},
		{name: "wrapped validation", err: fmt.Errorf("register: %w", ErrMissingFields), expected: KindValidation},
		{name: "password too long", err: ErrPasswordTooLong, expected: KindValidation},
		{name: "auth", err: ErrTokenExpired, expected: KindAuth},
		{name: "forbidden", err: ErrForbidden, expected: KindForbidden},
		{name: "exhausted", err: ErrTrialsExhausted, expected: KindForbidden},
		{name: "not found", err: fmt.Errorf("failed to get user: %w", ErrUserNotFound), expected: KindNotFound},
		{name: "conflict", err: ErrCannotResetAdmin, expected: KindConflict},
		{name: "store", err: fmt.Errorf("failed to query: %w", fmt.Errorf("driver: bad connection")), expected: KindStore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ErrorKindOf(tt.err))
		})
	}
}
