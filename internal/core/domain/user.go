package domain

import "time"

// User represents a staff account of the application.
type User struct {
	UserID                 string     `json:"userID"`
	Username               string     `json:"username"`
	Email                  *string    `json:"email,omitempty"`
	Name                   string     `json:"name"`
	Phone                  string     `json:"phone"`
	Role                   Role       `json:"role"`
	PasswordHash           string     `json:"-"`
	IsActive               bool       `json:"isActive"`
	AuthProvider           string     `json:"authProvider"`
	ProviderUserID         *string    `json:"-"`
	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`
	LastLogin              *time.Time `json:"lastLogin,omitempty"`
	AuditFields
}

// Authentication providers.
const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

// Actor returns the identity the user acts as.
func (u User) Actor() Actor {
	return Actor{UserID: u.UserID, Name: u.Name, Role: u.Role}
}
