package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"qyzmet_backend/internal/logger"
)

// Channel - канал Redis Pub/Sub для логических событий ядра.
// Внешний механизм доставки (push, email, сокеты) подписывается на него;
// ядро гарантирует только то, что изменение состояния уже закоммичено
// к моменту публикации. Доставка не гарантируется.
const Channel = "qyzmet:events"

const (
	EventOfferReceived   = "offerReceived"
	EventOfferAccepted   = "offerAccepted"
	EventJobCompleted    = "jobCompleted"
	EventReviewSubmitted = "reviewSubmitted"
	EventComplaintClosed = "complaintClosed"
	EventUpgradeDecided  = "upgradeDecided"
)

type Event struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Payload    map[string]string `json:"payload"`
	OccurredAt time.Time         `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, eventType string, payload map[string]string)
}

// RedisPublisher публикует события в Redis Pub/Sub
type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(addr, password string, db int) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Publish(ctx context.Context, eventType string, payload map[string]string) {
	event := Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Payload:    payload,
		OccurredAt: time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.CtxWithError(ctx, "failed to marshal event", err, "type", eventType)
		return
	}

	if err := p.client.Publish(ctx, Channel, data).Err(); err != nil {
		// Fire-and-forget: состояние уже закоммичено, событие не ретраим
		logger.CtxWithError(ctx, "failed to publish event", err, "type", eventType)
	}
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

// NopPublisher используется, когда Redis не сконфигурирован (тесты, dev)
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, eventType string, payload map[string]string) {}
