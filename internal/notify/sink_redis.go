package notify

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSink appends intents to a Redis Stream the delivery workers consume.
type RedisSink struct {
	client *redis.Client
	stream string
}

func NewRedisSink(client *redis.Client, stream string) *RedisSink {
	return &RedisSink{client: client, stream: stream}
}

func (s *RedisSink) Send(ctx context.Context, n Notification) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			"userId":        n.UserID,
			"incidentId":    n.IncidentID,
			"pointsAwarded": strconv.Itoa(n.PointsAwarded),
			"incidentType":  string(n.IncidentType),
			"location":      n.Location,
			"title":         n.Title,
			"message":       n.Message,
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd notification: %w", err)
	}
	return nil
}
