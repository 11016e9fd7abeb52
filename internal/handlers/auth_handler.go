package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/magicalwebsite/backend/internal/models"
	"go.uber.org/zap"
)

// AuthService is the interface that wraps methods for account authentication.
type AuthService interface {
	// Method Register creates a regular user with the default allowance and returns a token bound to its email.
	//
	// It fails with models.ErrMissingFields, models.ErrInvalidEmailFormat or models.ErrUserAlreadyExists
	// for rejected input, or with a wrapped store error.
	Register(ctx context.Context, email, password string) (*models.AuthResult, error)
	// Method Login verifies the credentials and returns a token bound to the user's email.
	//
	// Unknown emails and wrong passwords both fail with models.ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*models.AuthResult, error)
}

// AuthHandler handles registration and login
type AuthHandler struct {
	BaseHandler
	authService AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: newBaseHandler(logger),
		authService: authService,
	}
}

// RegisterRoutes registers all auth handler routes
// Note: This assumes the router is already scoped to /api
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
}

// Register handles POST /api/register
// @Summary Register a new user
// @Description Create a regular account with 5 trials and return an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration request"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} ErrorResponse "Missing fields, invalid email or user already exists"
// @Failure 500 {object} ErrorResponse
// @Router /api/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondDecodeError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	result, err := h.authService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondAuthError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, AuthResponse{
		Success:     true,
		Message:     "User registered successfully",
		AccessToken: result.Token,
		User:        models.NewUserResponse(result.User),
	})
}

// Login handles POST /api/login
// @Summary Login user
// @Description Authenticate with email and password and return an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login request"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} ErrorResponse "Missing fields or invalid email"
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Failure 500 {object} ErrorResponse
// @Router /api/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondDecodeError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondAuthError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, AuthResponse{
		Success:     true,
		Message:     "Login successful",
		AccessToken: result.Token,
		User:        models.NewUserResponse(result.User),
	})
}

// respondAuthError reports missing credentials with the message used by both auth endpoints
func (h *AuthHandler) respondAuthError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, models.ErrMissingFields) {
		h.respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	h.respondServiceError(w, r, err)
}
