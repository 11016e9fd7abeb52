package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/magicalwebsite/backend/internal/models"
	"go.uber.org/zap"
)

// AdminService is the interface that wraps methods for admin user management.
type AdminService interface {
	// Method ListUsers returns every user with its total usage count.
	//
	// Non-admin actors are refused with models.ErrForbidden.
	ListUsers(ctx context.Context, actor *models.User) ([]models.UserListItem, error)
	// Method ResetTrials sets the allowance of the user identified by targetID to count.
	//
	// Fails with models.ErrUserNotFound for unknown users and models.ErrCannotResetAdmin for admin targets.
	ResetTrials(ctx context.Context, actor *models.User, targetID int, count int) (*models.User, error)
}

// AdminHandler handles admin-only requests
type AdminHandler struct {
	BaseHandler
	adminService AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  newBaseHandler(logger),
		adminService: adminService,
	}
}

// RegisterRoutes registers all admin handler routes
// Note: This assumes the router is already scoped to /api/admin and guarded by the auth and admin middlewares
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Get("/users", h.ListUsers)
	r.Post("/users/{id}/reset-trials", h.ResetTrials)
}

// ListUsers handles GET /api/admin/users
// @Summary List users
// @Description List all users with their total usage count
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} UsersResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Admin access required"
// @Failure 500 {object} ErrorResponse
// @Router /api/admin/users [get]
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	users, err := h.adminService.ListUsers(r.Context(), actor)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, UsersResponse{
		Success:    true,
		Users:      users,
		TotalUsers: len(users),
	})
}

// ResetTrials handles POST /api/admin/users/{id}/reset-trials
// @Summary Reset user trials
// @Description Set the remaining trials of a regular user. trial_count defaults to 5.
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "User ID"
// @Param request body models.ResetTrialsRequest false "New trial count"
// @Success 200 {object} ResetTrialsResponse
// @Failure 400 {object} ErrorResponse "Invalid user id or admin target"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Admin access required"
// @Failure 404 {object} ErrorResponse "User not found"
// @Failure 500 {object} ErrorResponse
// @Router /api/admin/users/{id}/reset-trials [post]
func (h *AdminHandler) ResetTrials(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	targetID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.respondServiceError(w, r, models.ErrInvalidUserID)
		return
	}

	var req models.ResetTrialsRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondDecodeError(w, err)
		return
	}
	count := models.DefaultDemoCount
	if req.TrialCount != nil {
		count = *req.TrialCount
	}

	user, err := h.adminService.ResetTrials(r.Context(), actor, targetID, count)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, ResetTrialsResponse{
		Success: true,
		Message: fmt.Sprintf("User trials reset to %d", count),
		User:    models.NewUserResponse(user),
	})
}
