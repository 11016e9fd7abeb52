package handlers

import "github.com/magicalwebsite/backend/internal/models"

// ErrorResponse is the failure envelope
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"User not found"`
}

// MessageResponse is a success envelope carrying only a message
type MessageResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Success     bool                `json:"success" example:"true"`
	Message     string              `json:"message"`
	AccessToken string              `json:"access_token"`
	User        models.UserResponse `json:"user"`
}

// UserInfoResponse is returned by /api/user/info
type UserInfoResponse struct {
	Success bool                `json:"success" example:"true"`
	User    models.UserResponse `json:"user"`
}

// UseTrialResponse is returned after a trial is consumed
type UseTrialResponse struct {
	Success         bool             `json:"success" example:"true"`
	Message         string           `json:"message"`
	RemainingTrials models.Allowance `json:"remaining_trials" swaggertype:"string" example:"4"`
	IsAdmin         bool             `json:"is_admin"`
}

// TrialsExhaustedResponse is returned when a user has no trials left
type TrialsExhaustedResponse struct {
	Success         bool   `json:"success" example:"false"`
	Message         string `json:"message" example:"No trials remaining"`
	RemainingTrials int    `json:"remaining_trials" example:"0"`
}

// CheckTrialResponse is returned by /api/user/check-trial
type CheckTrialResponse struct {
	Success         bool                `json:"success" example:"true"`
	HasTrials       bool                `json:"has_trials"`
	RemainingTrials models.Allowance    `json:"remaining_trials" swaggertype:"string" example:"5"`
	IsAdmin         bool                `json:"is_admin"`
	Role            models.Role         `json:"role" swaggertype:"string" example:"user"`
	UserInfo        models.UserResponse `json:"user_info"`
}

// PermissionsResponse is returned by /api/user/permissions
type PermissionsResponse struct {
	Success     bool                   `json:"success" example:"true"`
	User        models.UserResponse    `json:"user"`
	Permissions models.PermissionFlags `json:"permissions"`
	UsageStats  models.UsageStats      `json:"usage_stats"`
}

// UsersResponse is returned by /api/admin/users
type UsersResponse struct {
	Success    bool                  `json:"success" example:"true"`
	Users      []models.UserListItem `json:"users"`
	TotalUsers int                   `json:"total_users"`
}

// ResetTrialsResponse is returned after an admin resets a user's trials
type ResetTrialsResponse struct {
	Success bool                `json:"success" example:"true"`
	Message string              `json:"message" example:"User trials reset to 5"`
	User    models.UserResponse `json:"user"`
}

// HealthResponse is returned by /health
type HealthResponse struct {
	Success  bool   `json:"success" example:"true"`
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"ok"`
}
