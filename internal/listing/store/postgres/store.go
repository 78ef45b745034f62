package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	complaintmodels "nammasev/internal/complaint/models"
	complaintpg "nammasev/internal/complaint/store/postgres"
	"nammasev/internal/listing/models"
	id "nammasev/pkg/domain"
)

// Store answers listing queries with SQL. It reuses the complaint store's
// column list and row scanner so list items and single lookups stay in
// lockstep.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListByCitizen(ctx context.Context, citizenID id.CitizenID, filter models.OwnerFilter) ([]*complaintmodels.Complaint, int, error) {
	where := []string{"citizen_id = $1"}
	args := []any{uuid.UUID(citizenID)}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		where = append(where, "status = $"+strconv.Itoa(len(args)))
	}
	return s.list(ctx, where, args, "created_at DESC", filter.PageRequest)
}

func (s *Store) CountByStatusForCitizen(ctx context.Context, citizenID id.CitizenID) (map[id.Status]int, error) {
	query := `
		SELECT status, COUNT(*)
		FROM complaints
		WHERE citizen_id = $1
		GROUP BY status
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(citizenID))
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[id.Status]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[id.Status(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}
	return counts, nil
}

func (s *Store) ListAdmin(ctx context.Context, filter models.AdminFilter) ([]*complaintmodels.Complaint, int, error) {
	var where []string
	var args []any
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		where = append(where, "status = $"+strconv.Itoa(len(args)))
	}
	if filter.Category != nil {
		args = append(args, string(*filter.Category))
		where = append(where, "category = $"+strconv.Itoa(len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+search+"%")
		n := strconv.Itoa(len(args))
		where = append(where,
			"(title ILIKE $"+n+" OR description ILIKE $"+n+" OR location ILIKE $"+n+" OR tracking_id ILIKE $"+n+")")
	}
	return s.list(ctx, where, args, "created_at DESC", filter.PageRequest)
}

func (s *Store) ListPublic(ctx context.Context, filter models.PublicFilter) ([]*complaintmodels.Complaint, int, error) {
	where := []string{"is_public = TRUE"}
	var args []any
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		where = append(where, "status = $"+strconv.Itoa(len(args)))
	}
	if filter.Category != nil {
		args = append(args, string(*filter.Category))
		where = append(where, "category = $"+strconv.Itoa(len(args)))
	}
	return s.list(ctx, where, args,
		"resolved_at DESC NULLS LAST, updated_at DESC",
		filter.PageRequest,
	)
}

func (s *Store) list(ctx context.Context, where []string, args []any, orderBy string, page models.PageRequest) ([]*complaintmodels.Complaint, int, error) {
	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM complaints"+whereSQL, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count complaints: %w", err)
	}

	limitArgs := append(append([]any{}, args...), page.Limit, page.Offset())
	query := "SELECT " + complaintpg.ComplaintColumns() + " FROM complaints" + whereSQL +
		" ORDER BY " + orderBy +
		" LIMIT $" + strconv.Itoa(len(args)+1) + " OFFSET $" + strconv.Itoa(len(args)+2)

	rows, err := s.db.QueryContext(ctx, query, limitArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("query complaints: %w", err)
	}
	defer rows.Close()

	var complaints []*complaintmodels.Complaint
	for rows.Next() {
		c, err := complaintpg.ScanComplaint(rows)
		if err != nil {
			return nil, 0, err
		}
		complaints = append(complaints, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate complaints: %w", err)
	}
	return complaints, total, nil
}

// PublicStats aggregates over published complaints only; unpublished
// records never influence the transparency counters or the average rating.
func (s *Store) PublicStats(ctx context.Context) (models.Stats, error) {
	var stats models.Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'resolved'),
			COUNT(*) FILTER (WHERE status = 'in_progress'),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COALESCE((
				SELECT AVG(f.rating)
				FROM feedback f
				JOIN complaints c ON c.id = f.complaint_id
				WHERE c.is_public
			), 0)
		FROM complaints
		WHERE is_public
	`).Scan(&stats.Total, &stats.Resolved, &stats.InProgress, &stats.Pending, &stats.AvgRating)
	if err != nil {
		return models.Stats{}, fmt.Errorf("aggregate stats: %w", err)
	}
	return stats, nil
}

func (s *Store) TimelineFor(ctx context.Context, complaintID id.ComplaintID) ([]complaintmodels.TimelineEntry, error) {
	query := `
		SELECT id, complaint_id, status, remarks, actor_id, created_at
		FROM complaint_timeline
		WHERE complaint_id = $1
		ORDER BY created_at, id
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(complaintID))
	if err != nil {
		return nil, fmt.Errorf("query timeline: %w", err)
	}
	defer rows.Close()

	var timeline []complaintmodels.TimelineEntry
	for rows.Next() {
		var (
			entry   complaintmodels.TimelineEntry
			entryID uuid.UUID
			compID  uuid.UUID
			status  string
			actorID uuid.UUID
		)
		if err := rows.Scan(&entryID, &compID, &status, &entry.Remarks, &actorID, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan timeline entry: %w", err)
		}
		entry.ID = id.TimelineEntryID(entryID)
		entry.ComplaintID = id.ComplaintID(compID)
		entry.Status = id.Status(status)
		entry.ActorID = id.CitizenID(actorID)
		timeline = append(timeline, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate timeline: %w", err)
	}
	return timeline, nil
}
