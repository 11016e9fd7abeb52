package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/magicalwebsite/backend/internal/models"
	"go.uber.org/zap"
)

// EntitlementService is the interface that wraps methods for trial allowance business logic.
type EntitlementService interface {
	// Method ConsumeTrial spends one trial of the user and records a usage log entry of demoType.
	//
	// Admins are never decremented. When no trials remain models.ErrTrialsExhausted is returned
	// and nothing is changed.
	ConsumeTrial(ctx context.Context, user *models.User, demoType string) (*models.TrialResult, error)
	// Method CheckTrial describes the user's current allowance.
	CheckTrial(user *models.User) *models.TrialStatus
	// Method Permissions returns the user's permission flags with total usage and recent usage entries.
	Permissions(ctx context.Context, user *models.User) (*models.Permissions, error)
	// Method ChangePassword verifies the current password and stores the new one.
	//
	// Rejections are reported with models.ErrMissingFields, models.ErrIncorrectCurrentPassword,
	// models.ErrPasswordTooShort and models.ErrPasswordUnchanged.
	ChangePassword(ctx context.Context, user *models.User, currentPassword, newPassword string) error
}

// UserHandler handles requests of the authenticated user
type UserHandler struct {
	BaseHandler
	entitlementService EntitlementService
}

// NewUserHandler creates a new user handler
func NewUserHandler(entitlementService EntitlementService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler:        newBaseHandler(logger),
		entitlementService: entitlementService,
	}
}

// RegisterRoutes registers all user handler routes
// Note: This assumes the router is already scoped to /api/user and guarded by the auth middleware
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Get("/info", h.GetInfo)
	r.Post("/use-trial", h.UseTrial)
	r.Get("/check-trial", h.CheckTrial)
	r.Get("/permissions", h.GetPermissions)
	r.Post("/change-password", h.ChangePassword)
}

// GetInfo handles GET /api/user/info
// @Summary Get current user
// @Tags user
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} UserInfoResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/user/info [get]
func (h *UserHandler) GetInfo(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	h.respondJSON(w, http.StatusOK, UserInfoResponse{
		Success: true,
		User:    models.NewUserResponse(user),
	})
}

// UseTrial handles POST /api/user/use-trial
// @Summary Use one trial
// @Description Consume one trial of a demo feature. Admins have unlimited access but their usage is still logged.
// @Tags user
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.UseTrialRequest false "Demo type, defaults to unknown"
// @Success 200 {object} UseTrialResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} TrialsExhaustedResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/user/use-trial [post]
func (h *UserHandler) UseTrial(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req models.UseTrialRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondDecodeError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondServiceError(w, r, models.ErrDemoTypeTooLong)
		return
	}

	result, err := h.entitlementService.ConsumeTrial(r.Context(), user, req.DemoType)
	if err != nil {
		if errors.Is(err, models.ErrTrialsExhausted) {
			h.respondJSON(w, http.StatusForbidden, TrialsExhaustedResponse{
				Success:         false,
				Message:         errorMessage(err),
				RemainingTrials: 0,
			})
			return
		}
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, UseTrialResponse{
		Success:         true,
		Message:         result.Message,
		RemainingTrials: result.Remaining,
		IsAdmin:         result.IsAdmin,
	})
}

// CheckTrial handles GET /api/user/check-trial
// @Summary Check remaining trials
// @Tags user
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} CheckTrialResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/user/check-trial [get]
func (h *UserHandler) CheckTrial(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	status := h.entitlementService.CheckTrial(user)

	h.respondJSON(w, http.StatusOK, CheckTrialResponse{
		Success:         true,
		HasTrials:       status.HasTrials,
		RemainingTrials: status.Remaining,
		IsAdmin:         status.IsAdmin,
		Role:            status.Role,
		UserInfo:        models.NewUserResponse(status.User),
	})
}

// GetPermissions handles GET /api/user/permissions
// @Summary Get permissions and usage history
// @Description Permission flags, total usage and the 5 most recent usage entries of the current user
// @Tags user
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} PermissionsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/user/permissions [get]
func (h *UserHandler) GetPermissions(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	permissions, err := h.entitlementService.Permissions(r.Context(), user)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, PermissionsResponse{
		Success:     true,
		User:        models.NewUserResponse(permissions.User),
		Permissions: permissions.Flags,
		UsageStats:  permissions.UsageStats,
	})
}

// ChangePassword handles POST /api/user/change-password
// @Summary Change password
// @Tags user
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/user/change-password [post]
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req models.ChangePasswordRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondDecodeError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondServiceError(w, r, models.ErrMissingFields)
		return
	}

	if err := h.entitlementService.ChangePassword(r.Context(), user, req.CurrentPassword, req.NewPassword); err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, MessageResponse{
		Success: true,
		Message: "Password changed successfully",
	})
}
