package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	infracontext "github.com/jonesrussell/north-cloud/article-service/infrastructure/context"
	infralogger "github.com/jonesrussell/north-cloud/article-service/infrastructure/logger"
)

// defaultMaxLen caps the stream length (approximate trimming).
const defaultMaxLen = 10000

// Publisher appends events to StreamName. A nil *Publisher is a valid no-op.
type Publisher struct {
	client *redis.Client
	log    infralogger.Logger
	maxLen int64
}

// NewPublisher returns nil when client is nil so callers can wire it unconditionally.
func NewPublisher(client *redis.Client, log infralogger.Logger) *Publisher {
	if client == nil {
		return nil
	}
	if log == nil {
		log = infralogger.NewNop()
	}
	return &Publisher{client: client, log: log, maxLen: defaultMaxLen}
}

// Publish appends event to the stream and returns the stream entry id.
func (p *Publisher) Publish(ctx context.Context, event ArticleEvent) (string, error) {
	if p == nil {
		return "", nil
	}

	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	payload, marshalErr := json.Marshal(event)
	if marshalErr != nil {
		return "", fmt.Errorf("marshal event: %w", marshalErr)
	}

	streamID, addErr := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamName,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{
			"event_type": string(event.EventType),
			"event":      string(payload),
		},
	}).Result()
	if addErr != nil {
		return "", fmt.Errorf("publish to stream %s: %w", StreamName, addErr)
	}

	p.log.Debug("Published article event",
		infralogger.String("event_type", string(event.EventType)),
		infralogger.Int64("article_id", event.ArticleID),
		infralogger.String("stream_id", streamID),
	)

	return streamID, nil
}

// Ping checks the Redis connection.
func (p *Publisher) Ping(ctx context.Context) error {
	if p == nil {
		return nil
	}
	return p.client.Ping(ctx).Err()
}

// PublishAsync publishes in the background. Failures are logged, never returned.
func (p *Publisher) PublishAsync(ctx context.Context, event ArticleEvent) {
	if p == nil {
		return
	}

	go func() {
		pubCtx, cancel := infracontext.Detached(ctx)
		defer cancel()

		if _, err := p.Publish(pubCtx, event); err != nil {
			p.log.Error("Async publish failed",
				infralogger.String("event_type", string(event.EventType)),
				infralogger.Int64("article_id", event.ArticleID),
				infralogger.Error(err),
			)
		}
	}()
}
