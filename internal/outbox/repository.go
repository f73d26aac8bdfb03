package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

const EventOrderPlaced = "order.placed"

type Record struct {
	ID        int64
	EventID   string
	Topic     string
	Key       string
	Payload   json.RawMessage
	CreatedAt time.Time
	SentAt    *time.Time
}

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

// Insert writes an event inside the caller's transaction, so it is only
// visible once the business rows commit.
func (r *MySQLRepository) Insert(ctx context.Context, tx *sql.Tx, eventID, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding outbox payload: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO outbox (event_id, topic, event_key, payload) VALUES (?, ?, ?, ?)`,
		eventID, topic, key, data,
	)
	if err != nil {
		return fmt.Errorf("inserting outbox record: %w", err)
	}
	return nil
}

func (r *MySQLRepository) FetchPending(ctx context.Context, limit int) ([]Record, error) {
	query := `
		SELECT id, event_id, topic, event_key, payload, created_at, sent_at
		FROM outbox
		WHERE sent_at IS NULL
		ORDER BY id
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying pending outbox records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var payload []byte
		if err := rows.Scan(&rec.ID, &rec.EventID, &rec.Topic, &rec.Key, &payload, &rec.CreatedAt, &rec.SentAt); err != nil {
			return nil, fmt.Errorf("scanning outbox row: %w", err)
		}
		rec.Payload = payload
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating outbox rows: %w", err)
	}
	return out, nil
}

func (r *MySQLRepository) MarkSent(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE outbox SET sent_at = CURRENT_TIMESTAMP(3) WHERE id = ?`, id); err != nil {
		return fmt.Errorf("marking outbox record %d sent: %w", id, err)
	}
	return nil
}
