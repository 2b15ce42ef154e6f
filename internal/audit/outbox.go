package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// OutboxPublisher drains the audit_outbox table and produces entries to the
// audit topic. Rows are only marked published after the broker acks, so a
// crash between produce and mark can re-publish; consumers must dedupe on
// the entry id.
type OutboxPublisher struct {
	db       *sql.DB
	client   *kgo.Client
	topic    string
	interval time.Duration
	batch    int
	logger   *slog.Logger
}

func NewOutboxPublisher(db *sql.DB, client *kgo.Client, topic string, interval time.Duration, logger *slog.Logger) *OutboxPublisher {
	return &OutboxPublisher{
		db:       db,
		client:   client,
		topic:    topic,
		interval: interval,
		batch:    100,
		logger:   logger,
	}
}

// Run drains the outbox until the context is cancelled.
func (p *OutboxPublisher) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n, err := p.drain(ctx); err != nil {
				p.logger.ErrorContext(ctx, "audit outbox drain failed", "error", err)
			} else if n > 0 {
				p.logger.InfoContext(ctx, "audit events published", "count", n)
			}
		}
	}
}

func (p *OutboxPublisher) drain(ctx context.Context) (int, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, event_type, payload FROM audit_outbox
		WHERE published_at IS NULL
		ORDER BY created_at
		LIMIT $1`, p.batch)
	if err != nil {
		return 0, fmt.Errorf("select outbox: %w", err)
	}

	type pendingRow struct {
		id        string
		eventType string
		payload   []byte
	}
	var pending []pendingRow
	for rows.Next() {
		var row pendingRow
		if err := rows.Scan(&row.id, &row.eventType, &row.payload); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan outbox row: %w", err)
		}
		pending = append(pending, row)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	var published int
	for _, row := range pending {
		record := &kgo.Record{
			Topic: p.topic,
			Key:   []byte(row.eventType),
			Value: row.payload,
		}
		if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
			return published, fmt.Errorf("produce audit event: %w", err)
		}
		if _, err := p.db.ExecContext(ctx, `
			UPDATE audit_outbox SET published_at = $1 WHERE id = $2`,
			time.Now(), row.id,
		); err != nil {
			return published, fmt.Errorf("mark outbox published: %w", err)
		}
		published++
	}
	return published, nil
}
