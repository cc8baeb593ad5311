package mapping

import (
	"github.com/SscSPs/business_management_app/internal/core/domain"
	"github.com/SscSPs/business_management_app/internal/models"
)

// ToModelUser converts a domain User to a model User
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:                 d.UserID,
		Username:               d.Username,
		Email:                  d.Email,
		Name:                   d.Name,
		Phone:                  d.Phone,
		Role:                   string(d.Role),
		PasswordHash:           d.PasswordHash,
		IsActive:               d.IsActive,
		AuthProvider:           d.AuthProvider,
		ProviderUserID:         d.ProviderUserID,
		RefreshTokenHash:       d.RefreshTokenHash,
		RefreshTokenExpiryTime: d.RefreshTokenExpiryTime,
		LastLogin:              d.LastLogin,
		AuditFields:            ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:                 m.UserID,
		Username:               m.Username,
		Email:                  m.Email,
		Name:                   m.Name,
		Phone:                  m.Phone,
		Role:                   domain.Role(m.Role),
		PasswordHash:           m.PasswordHash,
		IsActive:               m.IsActive,
		AuthProvider:           m.AuthProvider,
		ProviderUserID:         m.ProviderUserID,
		RefreshTokenHash:       m.RefreshTokenHash,
		RefreshTokenExpiryTime: m.RefreshTokenExpiryTime,
		LastLogin:              m.LastLogin,
		AuditFields:            ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainUserSlice converts a slice of model Users to a slice of domain Users
func ToDomainUserSlice(ms []models.User) []domain.User {
	ds := make([]domain.User, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainUser(m)
	}
	return ds
}
