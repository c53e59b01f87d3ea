package service

import (
	"context"

	"digitask/internal/dto"
	"digitask/internal/model"
)

// EventPublisher decouples the engines from delivery transports. Engines
// emit domain events after a successful write; the worker dispatcher
// forwards them to redis (socket fan-out, alert mail queue). Persistence
// correctness never depends on delivery; publish failures are logged and
// dropped by the implementation, not returned to the write path.
type EventPublisher interface {
	PublishLocation(ctx context.Context, payload dto.LocationBroadcast)
	PublishNotification(ctx context.Context, n *model.Notification)
	EnqueueStockAlert(ctx context.Context, alert dto.StockAlertResponse)
	PublishChatMessage(ctx context.Context, msg dto.ChatMessageResponse)
}
