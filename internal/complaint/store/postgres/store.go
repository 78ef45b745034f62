package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"nammasev/internal/complaint/models"
	id "nammasev/pkg/domain"
	"nammasev/pkg/platform/sentinel"
	txcontext "nammasev/pkg/platform/tx"
)

// Store persists complaint aggregates in PostgreSQL. Writes join the
// caller's transaction when one is in context; Execute additionally takes
// a row lock with SELECT ... FOR UPDATE so validate-then-mutate is atomic.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) q(ctx context.Context) querier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const complaintColumns = `
	id, citizen_id, tracking_id, title, description, category, priority,
	location, ward, contact_phone, attachments, status, is_public,
	estimated_resolution_days, created_at, updated_at, resolved_at
`

func (s *Store) Create(ctx context.Context, complaint *models.Complaint) error {
	query := `
		INSERT INTO complaints (` + complaintColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := s.q(ctx).ExecContext(ctx, query,
		uuid.UUID(complaint.ID),
		uuid.UUID(complaint.CitizenID),
		complaint.TrackingID.String(),
		complaint.Title,
		complaint.Description,
		string(complaint.Category),
		string(complaint.Priority),
		complaint.Location,
		complaint.Ward,
		complaint.ContactPhone,
		pq.Array(complaint.Attachments),
		string(complaint.Status),
		complaint.IsPublic,
		complaint.EstimatedResolutionDays,
		complaint.CreatedAt,
		complaint.UpdatedAt,
		complaint.ResolvedAt,
	)
	if err != nil {
		return translateErr(err, "insert complaint")
	}

	for _, entry := range complaint.Timeline {
		if err := s.insertTimelineEntry(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) insertTimelineEntry(ctx context.Context, entry models.TimelineEntry) error {
	query := `
		INSERT INTO complaint_timeline (id, complaint_id, status, remarks, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.q(ctx).ExecContext(ctx, query,
		uuid.UUID(entry.ID),
		uuid.UUID(entry.ComplaintID),
		string(entry.Status),
		entry.Remarks,
		uuid.UUID(entry.ActorID),
		entry.CreatedAt,
	)
	if err != nil {
		return translateErr(err, "insert timeline entry")
	}
	return nil
}

func (s *Store) FindByID(ctx context.Context, complaintID id.ComplaintID) (*models.Complaint, error) {
	return s.findOne(ctx, `WHERE id = $1`, uuid.UUID(complaintID))
}

func (s *Store) FindByTrackingID(ctx context.Context, trackingID id.TrackingID) (*models.Complaint, error) {
	return s.findOne(ctx, `WHERE tracking_id = $1`, trackingID.String())
}

func (s *Store) findOne(ctx context.Context, where string, arg any) (*models.Complaint, error) {
	row := s.q(ctx).QueryRowContext(ctx, `SELECT `+complaintColumns+` FROM complaints `+where, arg)
	complaint, err := scanComplaint(row)
	if err != nil {
		return nil, err
	}
	if err := s.loadTimeline(ctx, complaint); err != nil {
		return nil, err
	}
	return complaint, nil
}

// Execute loads the complaint under a row lock, validates, mutates and
// persists. Callers run it inside tx.Runner.RunInTx so the lock spans the
// whole unit of work, including any outbox writes.
func (s *Store) Execute(ctx context.Context, complaintID id.ComplaintID,
	validate func(*models.Complaint) error,
	mutate func(*models.Complaint)) (*models.Complaint, error) {

	if _, inTx := txcontext.From(ctx); !inTx {
		return nil, fmt.Errorf("complaint store: Execute requires a transaction in context")
	}

	row := s.q(ctx).QueryRowContext(ctx,
		`SELECT `+complaintColumns+` FROM complaints WHERE id = $1 FOR UPDATE`,
		uuid.UUID(complaintID),
	)
	complaint, err := scanComplaint(row)
	if err != nil {
		return nil, err
	}
	if err := s.loadTimeline(ctx, complaint); err != nil {
		return nil, err
	}

	if err := validate(complaint); err != nil {
		return nil, err
	}

	existingEntries := len(complaint.Timeline)
	mutate(complaint)

	query := `
		UPDATE complaints
		SET status = $2, is_public = $3, updated_at = $4, resolved_at = $5
		WHERE id = $1
	`
	if _, err := s.q(ctx).ExecContext(ctx, query,
		uuid.UUID(complaint.ID),
		string(complaint.Status),
		complaint.IsPublic,
		complaint.UpdatedAt,
		complaint.ResolvedAt,
	); err != nil {
		return nil, translateErr(err, "update complaint")
	}

	for _, entry := range complaint.Timeline[existingEntries:] {
		if err := s.insertTimelineEntry(ctx, entry); err != nil {
			return nil, err
		}
	}
	return complaint, nil
}

func (s *Store) loadTimeline(ctx context.Context, complaint *models.Complaint) error {
	query := `
		SELECT id, complaint_id, status, remarks, actor_id, created_at
		FROM complaint_timeline
		WHERE complaint_id = $1
		ORDER BY created_at, id
	`
	rows, err := s.q(ctx).QueryContext(ctx, query, uuid.UUID(complaint.ID))
	if err != nil {
		return translateErr(err, "query timeline")
	}
	defer rows.Close()

	complaint.Timeline = nil
	for rows.Next() {
		var (
			entry       models.TimelineEntry
			entryID     uuid.UUID
			complaintID uuid.UUID
			status      string
			actorID     uuid.UUID
		)
		if err := rows.Scan(&entryID, &complaintID, &status, &entry.Remarks, &actorID, &entry.CreatedAt); err != nil {
			return fmt.Errorf("scan timeline entry: %w", err)
		}
		entry.ID = id.TimelineEntryID(entryID)
		entry.ComplaintID = id.ComplaintID(complaintID)
		entry.Status = id.Status(status)
		entry.ActorID = id.CitizenID(actorID)
		complaint.Timeline = append(complaint.Timeline, entry)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate timeline: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// ScanComplaint reads one complaint row in complaintColumns order. Shared
// with the listing queries, which select the same column list.
func ScanComplaint(row rowScanner) (*models.Complaint, error) {
	return scanComplaint(row)
}

func scanComplaint(row rowScanner) (*models.Complaint, error) {
	var (
		c           models.Complaint
		complaintID uuid.UUID
		citizenID   uuid.UUID
		trackingID  string
		category    string
		priority    string
		status      string
		attachments pq.StringArray
	)
	err := row.Scan(
		&complaintID,
		&citizenID,
		&trackingID,
		&c.Title,
		&c.Description,
		&category,
		&priority,
		&c.Location,
		&c.Ward,
		&c.ContactPhone,
		&attachments,
		&status,
		&c.IsPublic,
		&c.EstimatedResolutionDays,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.ResolvedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan complaint: %w", err)
	}
	c.ID = id.ComplaintID(complaintID)
	c.CitizenID = id.CitizenID(citizenID)
	c.TrackingID = id.TrackingID(trackingID)
	c.Category = id.Category(category)
	c.Priority = id.Priority(priority)
	c.Status = id.Status(status)
	c.Attachments = attachments
	return &c, nil
}

// ComplaintColumns exposes the shared select list for listing queries.
func ComplaintColumns() string { return complaintColumns }

func translateErr(err error, op string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return fmt.Errorf("%s: %w", op, sentinel.ErrAlreadyExists)
	}
	return fmt.Errorf("%s: %w", op, err)
}
