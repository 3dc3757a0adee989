package messaging

import (
	"context"
	"strconv"

	"github.com/wyfcoding/fruitable/internal/review/domain"
	"github.com/wyfcoding/fruitable/pkg/outbox"
)

// OutboxPublisher stores rating events in the shared outbox table.
type OutboxPublisher struct {
	mgr *outbox.Manager
}

func NewOutboxPublisher(mgr *outbox.Manager) *OutboxPublisher {
	return &OutboxPublisher{mgr: mgr}
}

func (p *OutboxPublisher) PublishProductRated(ctx context.Context, event domain.ProductRatedEvent) error {
	return p.mgr.Record(ctx, domain.ProductRatedEventType, strconv.FormatUint(uint64(event.ProductID), 10), event)
}
