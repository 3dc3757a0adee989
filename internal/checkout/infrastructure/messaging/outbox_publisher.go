package messaging

import (
	"context"
	"strconv"

	"github.com/wyfcoding/fruitable/internal/checkout/domain"
	"github.com/wyfcoding/fruitable/pkg/outbox"
)

// OutboxPublisher stores checkout events in the shared outbox table.
type OutboxPublisher struct {
	mgr *outbox.Manager
}

func NewOutboxPublisher(mgr *outbox.Manager) *OutboxPublisher {
	return &OutboxPublisher{mgr: mgr}
}

func (p *OutboxPublisher) PublishOrderCheckedOut(ctx context.Context, event domain.OrderCheckedOutEvent) error {
	return p.mgr.Record(ctx, domain.OrderCheckedOutEventType, strconv.FormatUint(uint64(event.OrderID), 10), event)
}
