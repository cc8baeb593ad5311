package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/business_management_app/internal/apperrors"
	"github.com/SscSPs/business_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/business_management_app/internal/core/ports/repositories"
	"github.com/SscSPs/business_management_app/internal/middleware"
)

// Cache keys of the dashboard aggregates.
const (
	cacheKeyOrderHealth = "stats:order_health"
	cacheKeyTaskStats   = "stats:tasks"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Cache     portsrepo.CacheRepository
	Publisher portsrepo.EventPublisher
	CacheTTL  time.Duration
	// Clock overrides time.Now, mostly in tests.
	Clock func() time.Time
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

func (s *BaseService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now().UTC()
}

// RequireAdmin rejects actors without management rights.
func (s *BaseService) RequireAdmin(ctx context.Context, actor domain.Actor, action string) error {
	if actor.IsAdmin() {
		return nil
	}
	err := apperrors.NewForbiddenError("only admins can " + action)
	s.LogError(ctx, err, "Actor not allowed",
		slog.String("user_id", actor.UserID),
		slog.String("role", string(actor.Role)),
		slog.String("action", action))
	return err
}

// publish emits events once their transaction has committed. Failures are logged only.
func (s *BaseService) publish(ctx context.Context, events ...domain.Event) {
	if s.Publisher == nil || len(events) == 0 {
		return
	}
	if err := s.Publisher.Publish(ctx, events...); err != nil {
		s.LogError(ctx, err, "Failed to publish events", slog.Int("count", len(events)))
	}
}

// invalidate drops cached aggregates. Failures are logged only.
func (s *BaseService) invalidate(ctx context.Context, keys ...string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Delete(ctx, keys...); err != nil {
		s.LogError(ctx, err, "Failed to invalidate cache")
	}
}

// cachedValue returns the value cached under key or loads and caches it.
// A broken cache degrades to calling load.
func cachedValue[T any](ctx context.Context, s *BaseService, key string, load func(ctx context.Context) (*T, error)) (*T, error) {
	if s.Cache != nil {
		var cached T
		found, err := s.Cache.Get(ctx, key, &cached)
		if err != nil {
			s.LogError(ctx, err, "Cache read failed", slog.String("key", key))
		} else if found {
			return &cached, nil
		}
	}

	value, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, key, value, s.CacheTTL); err != nil {
			s.LogError(ctx, err, "Cache write failed", slog.String("key", key))
		}
	}
	return value, nil
}

// clampLimit applies the default and maximum page size.
func clampLimit(limit, fallback, maximum int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > maximum {
		return maximum
	}
	return limit
}
