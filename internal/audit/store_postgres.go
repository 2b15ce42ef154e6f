package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PostgresStore writes each entry twice in one transaction: a queryable row
// in audit_entries and an outbox row the Kafka publisher drains. Downstream
// consumers treat the topic as the source of truth; audit_entries serves the
// in-app surfaces.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, entry Entry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal audit entry: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin audit tx: %w", err)
	}
	defer tx.Rollback()

	var affectedUser string
	if entry.AffectedUser != nil {
		affectedUser = entry.AffectedUser.ID
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO audit_entries (id, action_type, created_at, performed_by, actor_role,
			target_type, target_id, status_from, status_to, user_id, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		entry.ID, entry.ActionType, entry.Timestamp, entry.PerformedBy.ID, entry.PerformedBy.Role,
		entry.Target.Type, entry.Target.ID, entry.Target.StatusFrom, entry.Target.StatusTo,
		affectedUser, payload,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO audit_outbox (id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4)`,
		uuid.New(), entry.ActionType, payload, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}

	return tx.Commit()
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID string) ([]Entry, error) {
	return s.list(ctx, `SELECT payload FROM audit_entries WHERE user_id = $1 ORDER BY created_at`, userID)
}

func (s *PostgresStore) List(ctx context.Context) ([]Entry, error) {
	return s.list(ctx, `SELECT payload FROM audit_entries ORDER BY created_at`)
}

func (s *PostgresStore) list(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		var entry Entry
		if err := json.Unmarshal(payload, &entry); err != nil {
			return nil, fmt.Errorf("unmarshal audit entry: %w", err)
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}
