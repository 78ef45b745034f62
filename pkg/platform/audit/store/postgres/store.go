package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	id "nammasev/pkg/domain"
	audit "nammasev/pkg/platform/audit"
	txcontext "nammasev/pkg/platform/tx"
)

// Store implements audit.Store using the transactional outbox pattern.
// Events are written to the outbox table and published to Kafka by the
// relay worker. Appends join the caller's transaction when one is in
// the context, so outbox rows commit atomically with the domain change.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// outboxPayload is the JSON structure published to Kafka.
type outboxPayload struct {
	ID          string `json:"id"`
	Timestamp   string `json:"timestamp"`
	ComplaintID string `json:"complaint_id,omitempty"`
	ActorID     string `json:"actor_id,omitempty"`
	ActorRole   string `json:"actor_role,omitempty"`
	Action      string `json:"action"`
	Detail      string `json:"detail,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
	ClientIP    string `json:"client_ip,omitempty"`
}

// Append writes an audit event to the outbox table for Kafka publishing.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	eventID := uuid.New()

	payload := outboxPayload{
		ID:        eventID.String(),
		Timestamp: event.Timestamp.Format(time.RFC3339Nano),
		ActorID:   event.ActorID,
		ActorRole: event.ActorRole,
		Action:    event.Action,
		Detail:    event.Detail,
		RequestID: event.RequestID,
		ClientIP:  event.ClientIP,
	}
	if !event.ComplaintID.IsNil() {
		payload.ComplaintID = event.ComplaintID.String()
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	aggregateType := "audit"
	aggregateID := eventID.String()
	if !event.ComplaintID.IsNil() {
		aggregateType = "complaint"
		aggregateID = event.ComplaintID.String()
	}

	query := `
		INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = s.execer(ctx).ExecContext(ctx, query,
		eventID,
		aggregateType,
		aggregateID,
		event.Action,
		payloadBytes,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}
	return nil
}

// ListByComplaint returns audit events recorded against one complaint,
// newest first, read back from the outbox payloads.
func (s *Store) ListByComplaint(ctx context.Context, complaintID id.ComplaintID) ([]audit.Event, error) {
	query := `
		SELECT payload
		FROM outbox
		WHERE aggregate_type = 'complaint' AND aggregate_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, complaintID.String())
	if err != nil {
		return nil, fmt.Errorf("query outbox: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan outbox payload: %w", err)
		}
		var p outboxPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("unmarshal outbox payload: %w", err)
		}
		event := audit.Event{
			ActorID:   p.ActorID,
			ActorRole: p.ActorRole,
			Action:    p.Action,
			Detail:    p.Detail,
			RequestID: p.RequestID,
			ClientIP:  p.ClientIP,
		}
		if ts, err := time.Parse(time.RFC3339Nano, p.Timestamp); err == nil {
			event.Timestamp = ts
		}
		if p.ComplaintID != "" {
			if cid, err := id.ParseComplaintID(p.ComplaintID); err == nil {
				event.ComplaintID = cid
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox: %w", err)
	}
	return events, nil
}
