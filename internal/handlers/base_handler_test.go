package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/magicalwebsite/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// decodeBody decodes a JSON response body into a generic map
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestBaseHandler_RespondServiceError(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:            "validation error",
			err:             models.ErrInvalidEmailFormat,
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Invalid email format",
		},
		{
			name:            "password too long",
			err:             models.ErrPasswordTooLong,
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Password must be at most 72 bytes",
		},
		{
			name:            "conflict error",
			err:             fmt.Errorf("failed to create user: %w", models.ErrUserAlreadyExists),
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "User already exists",
		},
		{
			name:            "auth error",
			err:             models.ErrInvalidCredentials,
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "Invalid credentials",
		},
		{
			name:            "forbidden error",
			err:             models.ErrForbidden,
			expectedStatus:  http.StatusForbidden,
			expectedMessage: "Admin access required",
		},
		{
			name:            "not found error",
			err:             models.ErrUserNotFound,
			expectedStatus:  http.StatusNotFound,
			expectedMessage: "User not found",
		},
		{
			name:            "store error",
			err:             fmt.Errorf("failed to list users: %w", errStore),
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "failed to list users: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newBaseHandler(zap.NewNop())
			w := httptest.NewRecorder()

			h.respondServiceError(w, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			body := decodeBody(t, w)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.expectedMessage, body["message"])
		})
	}
}

func TestBaseHandler_RespondServiceError_LogsStoreErrors(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := newBaseHandler(zap.New(core))

	h.respondServiceError(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/user/permissions", nil), errStore)
	h.respondServiceError(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/user/info", nil), models.ErrUserNotFound)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, "/api/user/permissions", entry.ContextMap()["path"])
}

func TestBaseHandler_DecodeJSON(t *testing.T) {
	h := newBaseHandler(zap.NewNop())

	t.Run("empty body", func(t *testing.T) {
		req := models.UseTrialRequest{DemoType: "kept"}
		r := httptest.NewRequest(http.MethodPost, "/", nil)

		require.NoError(t, h.decodeJSON(r, &req))
		assert.Equal(t, "kept", req.DemoType)
	})

	t.Run("valid body", func(t *testing.T) {
		var req models.UseTrialRequest
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"demo_type":"travel"}`))

		require.NoError(t, h.decodeJSON(r, &req))
		assert.Equal(t, "travel", req.DemoType)
	})

	t.Run("malformed body", func(t *testing.T) {
		var req models.UseTrialRequest
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"demo_type":`))

		err := h.decodeJSON(r, &req)
		assert.ErrorIs(t, err, errInvalidBody)

		w := httptest.NewRecorder()
		h.respondDecodeError(w, err)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("body too large", func(t *testing.T) {
		var req models.UseTrialRequest
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"demo_type":"`+strings.Repeat("a", 64)+`"}`))
		r.Body = http.MaxBytesReader(w, r.Body, 16)

		err := h.decodeJSON(r, &req)
		require.Error(t, err)

		h.respondDecodeError(w, err)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}
