// Package relay moves audit events from the Postgres outbox to Kafka.
//
// The relay polls for unpublished outbox rows, produces them in order and
// marks them published in the same transaction that claimed them. Rows are
// claimed with FOR UPDATE SKIP LOCKED so multiple relay instances can run
// without double-publishing.
package relay

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Producer is the Kafka-facing port. Key is the aggregate ID so events
// for one complaint land on one partition in order.
type Producer interface {
	Produce(ctx context.Context, key string, payload []byte) error
}

// KafkaProducer produces to a single topic via franz-go.
type KafkaProducer struct {
	client *kgo.Client
	topic  string
}

// NewKafkaProducer connects to the brokers and ensures the topic exists.
func NewKafkaProducer(ctx context.Context, brokers []string, topic string) (*KafkaProducer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	admin := kadm.NewClient(client)
	resp, err := admin.CreateTopic(ctx, 1, 1, nil, topic)
	if err == nil {
		err = resp.Err
	}
	if err != nil && !errors.Is(err, kerr.TopicAlreadyExists) {
		// Not fatal: the broker may auto-create, and produce surfaces real failures.
		slog.Default().WarnContext(ctx, "create audit topic", "topic", topic, "error", err)
	}
	return &KafkaProducer{client: client, topic: topic}, nil
}

func (p *KafkaProducer) Produce(ctx context.Context, key string, payload []byte) error {
	record := &kgo.Record{Topic: p.topic, Key: []byte(key), Value: payload}
	return p.client.ProduceSync(ctx, record).FirstErr()
}

func (p *KafkaProducer) Close() {
	p.client.Close()
}

// Relay drains the outbox on a fixed period.
type Relay struct {
	db       *sql.DB
	producer Producer
	period   time.Duration
	batch    int
	logger   *slog.Logger
}

func New(db *sql.DB, producer Producer, period time.Duration, batch int, logger *slog.Logger) *Relay {
	if period <= 0 {
		period = 2 * time.Second
	}
	if batch <= 0 {
		batch = 100
	}
	return &Relay{db: db, producer: producer, period: period, batch: batch, logger: logger}
}

// Run polls until the context is cancelled. Publish failures are logged
// and retried on the next tick; the outbox row stays unpublished.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n, err := r.RelayOnce(ctx); err != nil {
				r.logger.ErrorContext(ctx, "outbox relay pass failed", "error", err)
			} else if n > 0 {
				r.logger.DebugContext(ctx, "outbox events relayed", "count", n)
			}
		}
	}
}

// RelayOnce claims up to one batch of unpublished rows, produces them and
// marks them published. Returns the number of events published.
func (r *Relay) RelayOnce(ctx context.Context) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin outbox tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `
		SELECT id, aggregate_id, payload
		FROM outbox
		WHERE published_at IS NULL
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`, r.batch)
	if err != nil {
		return 0, fmt.Errorf("claim outbox rows: %w", err)
	}

	type entry struct {
		id          string
		aggregateID string
		payload     []byte
	}
	var entries []entry
	for rows.Next() {
		var e entry
		if err := rows.Scan(&e.id, &e.aggregateID, &e.payload); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan outbox row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("iterate outbox rows: %w", err)
	}
	rows.Close()

	if len(entries) == 0 {
		return 0, tx.Commit()
	}

	published := make([]string, 0, len(entries))
	for _, e := range entries {
		if err := r.producer.Produce(ctx, e.aggregateID, e.payload); err != nil {
			// Stop at the first failure to preserve per-aggregate ordering.
			break
		}
		published = append(published, e.id)
	}
	if len(published) > 0 {
		if _, err := tx.ExecContext(ctx,
			`UPDATE outbox SET published_at = NOW() WHERE id = ANY($1)`,
			pq.Array(published),
		); err != nil {
			return 0, fmt.Errorf("mark outbox published: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit outbox tx: %w", err)
	}
	return len(published), nil
}
