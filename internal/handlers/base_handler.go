package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator"
	authMiddleware "github.com/magicalwebsite/backend/internal/auth/middleware"
	"github.com/magicalwebsite/backend/internal/middlewares"
	"github.com/magicalwebsite/backend/internal/models"
	"go.uber.org/zap"
)

// errInvalidBody is returned by decodeJSON for malformed request bodies
var errInvalidBody = errors.New("invalid request body")

// errorMessages maps domain errors to the messages shown to API clients
var errorMessages = []struct {
	err     error
	message string
}{
	{models.ErrMissingFields, "Missing required fields"},
	{models.ErrInvalidEmailFormat, "Invalid email format"},
	{models.ErrPasswordTooShort, "New password must be at least 6 characters"},
	{models.ErrPasswordTooLong, "Password must be at most 72 bytes"},
	{models.ErrInvalidUserID, "Invalid user id"},
	{models.ErrDemoTypeTooLong, "Demo type must be at most 50 characters"},
	{models.ErrInvalidCredentials, "Invalid credentials"},
	{models.ErrInvalidToken, "Invalid token"},
	{models.ErrTokenExpired, "Token has expired"},
	{models.ErrForbidden, "Admin access required"},
	{models.ErrTrialsExhausted, "No trials remaining"},
	{models.ErrUserNotFound, "User not found"},
	{models.ErrUserAlreadyExists, "User already exists"},
	{models.ErrCannotResetAdmin, "Cannot reset admin user trials"},
	{models.ErrPasswordUnchanged, "New password must be different from current password"},
	{models.ErrIncorrectCurrentPassword, "Current password is incorrect"},
}

// BaseHandler holds the dependencies shared by all handlers
type BaseHandler struct {
	logger   *zap.Logger
	validate *validator.Validate
}

func newBaseHandler(logger *zap.Logger) BaseHandler {
	return BaseHandler{
		logger:   logger,
		validate: validator.New(),
	}
}

// respondJSON sends a JSON response
func (h *BaseHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// respondError sends a failure envelope
func (h *BaseHandler) respondError(w http.ResponseWriter, status int, message string) {
	middlewares.WriteError(w, status, message)
}

// respondServiceError maps an error returned by a service to a status code and message.
// Unclassified errors are logged and reported as 500 with the error text.
func (h *BaseHandler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	switch models.ErrorKindOf(err) {
	case models.KindValidation, models.KindConflict:
		status = http.StatusBadRequest
	case models.KindAuth:
		status = http.StatusUnauthorized
	case models.KindForbidden:
		status = http.StatusForbidden
	case models.KindNotFound:
		status = http.StatusNotFound
	default:
		h.logger.Error("request failed",
			zap.String("request_id", middlewares.GetRequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.respondError(w, status, errorMessage(err))
}

// errorMessage returns the client message for a classified domain error
func errorMessage(err error) string {
	for _, m := range errorMessages {
		if errors.Is(err, m.err) {
			return m.message
		}
	}
	return err.Error()
}

// decodeJSON decodes the request body into dst.
// An empty body leaves dst untouched so optional bodies can be omitted.
func (h *BaseHandler) decodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return maxBytesErr
	}
	return errInvalidBody
}

// respondDecodeError reports a decodeJSON failure
func (h *BaseHandler) respondDecodeError(w http.ResponseWriter, err error) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		h.respondError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	h.respondError(w, http.StatusBadRequest, "Invalid request body")
}

// currentUser returns the user stored by the auth middleware.
// A missing user means the route was registered without the middleware.
func (h *BaseHandler) currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := authMiddleware.GetUser(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Missing authorization token")
		return nil, false
	}
	return user, true
}
