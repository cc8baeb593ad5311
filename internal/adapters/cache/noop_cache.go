package cache

import (
	"context"
	"time"

	portsrepo "github.com/SscSPs/business_management_app/internal/core/ports/repositories"
)

// NoopCache never stores anything. It is used when REDIS_URL is empty.
type NoopCache struct{}

var _ portsrepo.CacheRepository = NoopCache{}

func (NoopCache) Get(context.Context, string, any) (bool, error)        { return false, nil }
func (NoopCache) Set(context.Context, string, any, time.Duration) error { return nil }
func (NoopCache) Delete(context.Context, ...string) error               { return nil }
