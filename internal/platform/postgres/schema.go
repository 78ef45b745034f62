package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema is the idempotent DDL for the service. Applied on startup and by
// the integration test harness.
//
// Notable constraints:
//   - complaints.tracking_id UNIQUE backs the bounded-retry generator
//   - feedback.complaint_id UNIQUE enforces at-most-one feedback
//   - outbox.published_at NULL marks events awaiting the Kafka relay
const Schema = `
CREATE TABLE IF NOT EXISTS complaints (
	id UUID PRIMARY KEY,
	citizen_id UUID NOT NULL,
	tracking_id TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	category TEXT NOT NULL,
	priority TEXT NOT NULL,
	location TEXT NOT NULL,
	ward TEXT NOT NULL DEFAULT '',
	contact_phone TEXT NOT NULL DEFAULT '',
	attachments TEXT[] NOT NULL DEFAULT '{}',
	status TEXT NOT NULL,
	is_public BOOLEAN NOT NULL DEFAULT FALSE,
	estimated_resolution_days INT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	resolved_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_complaints_citizen ON complaints (citizen_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_complaints_status ON complaints (status);
CREATE INDEX IF NOT EXISTS idx_complaints_public ON complaints (is_public) WHERE is_public;

CREATE TABLE IF NOT EXISTS complaint_timeline (
	id UUID PRIMARY KEY,
	complaint_id UUID NOT NULL REFERENCES complaints (id),
	status TEXT NOT NULL,
	remarks TEXT NOT NULL DEFAULT '',
	actor_id UUID NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_timeline_complaint ON complaint_timeline (complaint_id, created_at);

CREATE TABLE IF NOT EXISTS feedback (
	id UUID PRIMARY KEY,
	complaint_id UUID NOT NULL UNIQUE REFERENCES complaints (id),
	citizen_id UUID NOT NULL,
	rating INT NOT NULL CHECK (rating BETWEEN 1 AND 5),
	comment TEXT NOT NULL DEFAULT '',
	submitted_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS outbox (
	id UUID PRIMARY KEY,
	aggregate_type TEXT NOT NULL,
	aggregate_id TEXT NOT NULL,
	event_type TEXT NOT NULL,
	payload JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	published_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_outbox_unpublished ON outbox (created_at) WHERE published_at IS NULL;
CREATE INDEX IF NOT EXISTS idx_outbox_aggregate ON outbox (aggregate_type, aggregate_id);
`

// Migrate applies the schema. Safe to run on every startup.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
