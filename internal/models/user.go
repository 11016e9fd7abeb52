package models

import (
	"encoding/json"
	"time"
)

// Role is a user's access level. It is stored as its string value.
type Role string

// UserRole constants
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid reports whether r is one of the known roles
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

const (
	// DefaultDemoCount is the allowance given to newly registered users
	DefaultDemoCount = 5
	// DefaultDemoType labels usage logs submitted without a demo type
	DefaultDemoType = "unknown"
	// MinPasswordLength is the minimum length of a new password
	MinPasswordLength = 6
	// RecentUsageLimit is the number of usage entries shown in permissions
	RecentUsageLimit = 5
	// MaxDemoTypeLength is the longest accepted demo type label
	MaxDemoTypeLength = 50
)

// User represents a user account in the system
type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize password hash
	Role         Role      `json:"role"`
	DemoCount    int       `json:"demoCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UsageLog represents a single trial consumption event
type UsageLog struct {
	ID       int       `json:"id"`
	UserID   int       `json:"userId"`
	DemoType string    `json:"demoType"`
	UsedAt   time.Time `json:"usedAt"`
}

// Allowance is the remaining-trials view of a user.
// It is encoded as the string "unlimited" for admins and as a number otherwise.
type Allowance struct {
	Unlimited bool
	Count     int
}

// MarshalJSON implements json.Marshaler
func (a Allowance) MarshalJSON() ([]byte, error) {
	if a.Unlimited {
		return json.Marshal("unlimited")
	}
	return json.Marshal(a.Count)
}

// UnmarshalJSON implements json.Unmarshaler
func (a *Allowance) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = Allowance{Unlimited: s == "unlimited"}
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*a = Allowance{Count: n}
	return nil
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID         int       `json:"id"`
	Email      string    `json:"email"`
	TrialCount Allowance `json:"trial_count"`
	IsAdmin    bool      `json:"is_admin"`
	Role       Role      `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewUserResponse builds the API view of a user
func NewUserResponse(u *User) UserResponse {
	trials := Allowance{Count: u.DemoCount}
	if u.IsAdmin() {
		trials = Allowance{Unlimited: true}
	}
	return UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		TrialCount: trials,
		IsAdmin:    u.IsAdmin(),
		Role:       u.Role,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// UserWithUsage is a user together with the number of usage logs it owns
type UserWithUsage struct {
	User       User
	UsageCount int
}

// UserListItem represents a user in the admin users list
type UserListItem struct {
	UserResponse
	TotalUsage int `json:"total_usage"`
}
