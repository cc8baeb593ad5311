package models

import (
	"time"
)

// User is a row of the users table.
type User struct {
	UserID                 string     `db:"user_id"`
	Username               string     `db:"username"`
	Email                  *string    `db:"email"`
	Name                   string     `db:"name"`
	Phone                  string     `db:"phone"`
	Role                   string     `db:"role"`
	PasswordHash           string     `db:"password_hash"`
	IsActive               bool       `db:"is_active"`
	AuthProvider           string     `db:"auth_provider"`
	ProviderUserID         *string    `db:"provider_user_id"`
	RefreshTokenHash       string     `db:"refresh_token_hash"`
	RefreshTokenExpiryTime *time.Time `db:"refresh_token_expiry_time"`
	LastLogin              *time.Time `db:"last_login"`
	AuditFields
}
