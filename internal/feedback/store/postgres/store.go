package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"nammasev/internal/feedback/models"
	id "nammasev/pkg/domain"
	"nammasev/pkg/platform/sentinel"
	txcontext "nammasev/pkg/platform/tx"
)

// Store persists feedback in PostgreSQL. The feedback table carries a
// unique constraint on complaint_id, which is what enforces the
// at-most-one invariant under concurrent submissions.
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

func (s *Store) Create(ctx context.Context, feedback *models.Feedback) error {
	query := `
		INSERT INTO feedback (id, complaint_id, citizen_id, rating, comment, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(feedback.ID),
		uuid.UUID(feedback.ComplaintID),
		uuid.UUID(feedback.CitizenID),
		feedback.Rating,
		feedback.Comment,
		feedback.SubmittedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("feedback for complaint: %w", sentinel.ErrAlreadyExists)
		}
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

func (s *Store) FindByComplaint(ctx context.Context, complaintID id.ComplaintID) (*models.Feedback, error) {
	query := `
		SELECT id, complaint_id, citizen_id, rating, comment, submitted_at
		FROM feedback
		WHERE complaint_id = $1
	`
	var (
		f          models.Feedback
		feedbackID uuid.UUID
		compID     uuid.UUID
		citizenID  uuid.UUID
	)
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(complaintID)).Scan(
		&feedbackID, &compID, &citizenID, &f.Rating, &f.Comment, &f.SubmittedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("query feedback: %w", err)
	}
	f.ID = id.FeedbackID(feedbackID)
	f.ComplaintID = id.ComplaintID(compID)
	f.CitizenID = id.CitizenID(citizenID)
	return &f, nil
}
