package models

import "time"

// AuthResult is the outcome of a successful registration or login
type AuthResult struct {
	Token string
	User  *User
}

// TrialResult is the outcome of a successful trial consumption
type TrialResult struct {
	Remaining Allowance
	IsAdmin   bool
	Message   string
}

// TrialStatus describes a user's current allowance
type TrialStatus struct {
	HasTrials bool
	Remaining Allowance
	IsAdmin   bool
	Role      Role
	User      *User
}

// RecentUsage represents a usage log entry in API responses
type RecentUsage struct {
	DemoType string    `json:"demo_type"`
	UsedAt   time.Time `json:"used_at"`
}

// UsageStats represents a user's usage history in API responses
type UsageStats struct {
	TotalUsage  int           `json:"total_usage"`
	RecentUsage []RecentUsage `json:"recent_usage"`
}

// PermissionFlags represents what a user is allowed to do
type PermissionFlags struct {
	CanUseTrial        bool      `json:"can_use_trial"`
	IsAdmin            bool      `json:"is_admin"`
	HasUnlimitedAccess bool      `json:"has_unlimited_access"`
	RemainingTrials    Allowance `json:"remaining_trials"`
}

// Permissions is a user's profile with permission flags and usage history
type Permissions struct {
	User       *User
	Flags      PermissionFlags
	UsageStats UsageStats
}
