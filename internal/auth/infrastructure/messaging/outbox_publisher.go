package messaging

import (
	"context"
	"strconv"

	"github.com/wyfcoding/fruitable/internal/auth/domain"
	"github.com/wyfcoding/fruitable/pkg/outbox"
)

// OutboxPublisher stores registration events in the shared outbox table.
type OutboxPublisher struct {
	mgr *outbox.Manager
}

func NewOutboxPublisher(mgr *outbox.Manager) *OutboxPublisher {
	return &OutboxPublisher{mgr: mgr}
}

func (p *OutboxPublisher) PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error {
	return p.mgr.Record(ctx, domain.UserRegisteredEventType, strconv.FormatUint(uint64(event.UserID), 10), event)
}
