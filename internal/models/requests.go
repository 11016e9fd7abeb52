package models

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UseTrialRequest represents a trial consumption request.
// An empty body is accepted and consumes a trial of DefaultDemoType.
type UseTrialRequest struct {
	DemoType string `json:"demo_type" validate:"max=50"`
}

// ChangePasswordRequest represents a password change request
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

// ResetTrialsRequest represents an admin request to reset a user's allowance.
// A missing trial_count resets the allowance to DefaultDemoCount.
type ResetTrialsRequest struct {
	TrialCount *int `json:"trial_count"`
}
