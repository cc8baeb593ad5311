package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/business_management_app/internal/apperrors"
	"github.com/SscSPs/business_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/business_management_app/internal/core/ports/repositories"
	"github.com/SscSPs/business_management_app/internal/models"
	"github.com/SscSPs/business_management_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userSelect = `
	SELECT user_id, username, email, name, phone, role, password_hash, is_active, auth_provider,
	       provider_user_id, refresh_token_hash, refresh_token_expiry_time, last_login,
	       created_at, created_by, last_updated_at, last_updated_by, version
	FROM users
`

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

func (r *PgxUserRepository) findOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	rows, err := r.db(ctx).Query(ctx, userSelect+"WHERE "+where, arg)
	if err != nil {
		return nil, mapReadError(err, "user")
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		return nil, mapReadError(err, "user")
	}
	u := mapping.ToDomainUser(m)
	return &u, nil
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	query := `
		INSERT INTO users (user_id, username, email, name, phone, role, password_hash, is_active, auth_provider,
		                   provider_user_id, created_at, created_by, last_updated_at, last_updated_by, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.db(ctx).Exec(ctx, query,
		m.UserID, m.Username, m.Email, m.Name, m.Phone, m.Role, m.PasswordHash, m.IsActive, m.AuthProvider,
		m.ProviderUserID, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, m.Version,
	)
	if err != nil {
		return mapWriteError(err, "user")
	}
	return nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findOne(ctx, "user_id = $1", userID)
}

func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "username = $1", username)
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "lower(email) = lower($1)", email)
}

func (r *PgxUserRepository) FindUserByProvider(ctx context.Context, provider, providerUserID string) (*domain.User, error) {
	rows, err := r.db(ctx).Query(ctx, userSelect+"WHERE auth_provider = $1 AND provider_user_id = $2", provider, providerUserID)
	if err != nil {
		return nil, mapReadError(err, "user")
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		return nil, mapReadError(err, "user")
	}
	u := mapping.ToDomainUser(m)
	return &u, nil
}

func (r *PgxUserRepository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db(ctx).Query(ctx, userSelect+"ORDER BY created_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, mapReadError(err, "users")
	}
	ms, err := collectRows[models.User](rows, "users")
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainUserSlice(ms), nil
}

func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	query := `
		UPDATE users
		SET email = $1, name = $2, phone = $3, role = $4, password_hash = $5, is_active = $6,
		    auth_provider = $7, provider_user_id = $8, last_updated_at = $9, last_updated_by = $10,
		    version = version + 1
		WHERE user_id = $11;
	`
	cmdTag, err := r.db(ctx).Exec(ctx, query,
		m.Email, m.Name, m.Phone, m.Role, m.PasswordHash, m.IsActive,
		m.AuthProvider, m.ProviderUserID, m.LastUpdatedAt, m.LastUpdatedBy,
		m.UserID,
	)
	if err != nil {
		return mapWriteError(err, "user")
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("user not found")
	}
	return nil
}

func (r *PgxUserRepository) UpdateRefreshToken(ctx context.Context, userID string, tokenHash string, expiry time.Time) error {
	query := `UPDATE users SET refresh_token_hash = $1, refresh_token_expiry_time = $2 WHERE user_id = $3;`
	cmdTag, err := r.db(ctx).Exec(ctx, query, tokenHash, expiry, userID)
	if err != nil {
		return fmt.Errorf("failed to store refresh token for user %s: %w", userID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("user not found")
	}
	return nil
}

func (r *PgxUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	query := `UPDATE users SET refresh_token_hash = '', refresh_token_expiry_time = NULL WHERE user_id = $1;`
	if _, err := r.db(ctx).Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to clear refresh token for user %s: %w", userID, err)
	}
	return nil
}

func (r *PgxUserRepository) TouchLastLogin(ctx context.Context, userID string, at time.Time) error {
	if _, err := r.db(ctx).Exec(ctx, `UPDATE users SET last_login = $1 WHERE user_id = $2;`, at, userID); err != nil {
		return fmt.Errorf("failed to record login for user %s: %w", userID, err)
	}
	return nil
}
