package events

import (
	"context"

	"github.com/SscSPs/business_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/business_management_app/internal/core/ports/repositories"
)

// NoopPublisher drops events. It is used when KAFKA_BROKERS is empty.
type NoopPublisher struct{}

var _ portsrepo.EventPublisher = NoopPublisher{}

func (NoopPublisher) Publish(context.Context, ...domain.Event) error { return nil }
func (NoopPublisher) Close() error                                   { return nil }
