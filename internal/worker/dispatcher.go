package worker

import (
	"context"
	"encoding/json"

	"digitask/internal/dto"
	"digitask/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Redis channel / queue names shared by the dispatcher and the worker pool.
const (
	LocationChannel     = "live_tracking"
	NotificationChannel = "notifications"
	StockAlertQueue     = "stock_alert_jobs"
	StockAlertDLQ       = "stock_alert_jobs_dlq"

	// ChatChannelPrefix + group id forms the per-group pub/sub channel.
	ChatChannelPrefix = "chat_"
)

// Dispatcher forwards domain events to redis. Location updates and
// notifications are fanned out over pub/sub; stock alerts are queued for
// the mail workers. All methods are fire-and-forget: failures are logged,
// never propagated to the write path that emitted the event.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// PublishLocation fans an accepted telemetry sample out to live-map
// subscribers.
func (d *Dispatcher) PublishLocation(ctx context.Context, payload dto.LocationBroadcast) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("marshal location broadcast")
		return
	}
	if err := d.rdb.Publish(ctx, LocationChannel, body).Err(); err != nil {
		log.Warn().Err(err).Str("user_id", payload.UserID).Msg("location broadcast dropped")
	}
}

// notificationEnvelope is the pub/sub wire format for the in-app feed.
// user_id is empty for broadcast notifications.
type notificationEnvelope struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
	UserID  string `json:"user_id,omitempty"`
	TaskID  string `json:"task_id,omitempty"`
}

// PublishNotification fans a persisted notification out to connected clients.
func (d *Dispatcher) PublishNotification(ctx context.Context, n *model.Notification) {
	env := notificationEnvelope{
		ID:      n.ID.String(),
		Title:   n.Title,
		Message: n.Message,
		Type:    n.Type,
	}
	if n.UserID != nil {
		env.UserID = n.UserID.String()
	}
	if n.TaskID != nil {
		env.TaskID = n.TaskID.String()
	}

	body, err := json.Marshal(env)
	if err != nil {
		log.Error().Err(err).Msg("marshal notification")
		return
	}
	if err := d.rdb.Publish(ctx, NotificationChannel, body).Err(); err != nil {
		log.Warn().Err(err).Str("notification_id", env.ID).Msg("notification fan-out dropped")
	}
}

// PublishChatMessage fans a persisted chat message out to the group's
// channel.
func (d *Dispatcher) PublishChatMessage(ctx context.Context, msg dto.ChatMessageResponse) {
	body, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Msg("marshal chat message")
		return
	}
	if err := d.rdb.Publish(ctx, ChatChannelPrefix+msg.GroupID, body).Err(); err != nil {
		log.Warn().Err(err).Str("group_id", msg.GroupID).Msg("chat fan-out dropped")
	}
}

// EnqueueStockAlert pushes a low-stock alert onto the mail queue.
func (d *Dispatcher) EnqueueStockAlert(ctx context.Context, alert dto.StockAlertResponse) {
	job := alertJob{Alert: alert}
	body, err := json.Marshal(job)
	if err != nil {
		log.Error().Err(err).Msg("marshal stock alert job")
		return
	}
	if err := d.rdb.LPush(ctx, StockAlertQueue, body).Err(); err != nil {
		log.Warn().Err(err).
			Str("product_id", alert.ProductID).
			Str("warehouse_id", alert.WarehouseID).
			Msg("stock alert enqueue failed")
	}
}
