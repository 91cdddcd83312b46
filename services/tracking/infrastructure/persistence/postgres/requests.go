package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/steritrack/services/tracking/domain"
	"github.com/ghuser/steritrack/services/tracking/domain/models"
	"github.com/ghuser/steritrack/services/tracking/domain/repositories"
)

type requestsRepo struct {
	rs *repoSet
}

const requestColumns = "id, subject_kind, subject_id, from_location, to_location, status, rejection_reason, requested_by, resolved_by, resolved_at, created_at"

func (r *requestsRepo) Insert(ctx context.Context, req *models.ForwardingRequest) error {
	_, err := r.rs.q.ExecContext(ctx, `
		INSERT INTO forwarding_requests (`+requestColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		req.ID, string(req.SubjectKind), req.SubjectID, string(req.From), string(req.To),
		string(req.Status), req.RejectionReason, req.RequestedBy,
		nullUUID(req.ResolvedBy), req.ResolvedAt, req.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: pending request for %s already exists", domain.ErrConflict, req.SubjectID)
		}
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

func (r *requestsRepo) Get(ctx context.Context, id uuid.UUID) (*models.ForwardingRequest, error) {
	row := r.rs.q.QueryRowContext(ctx,
		r.rs.forUpdate(`SELECT `+requestColumns+` FROM forwarding_requests WHERE id = $1`), id)
	req, err := scanRequest(row)
	if err != nil {
		return nil, wrapNotFound(err, "request %s", id)
	}
	return req, nil
}

func (r *requestsRepo) Find(ctx context.Context, filter repositories.RequestFilter, opts repositories.QueryOpts) ([]*models.ForwardingRequest, int, error) {
	where := ""
	var args []any
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		where = fmt.Sprintf(" WHERE status = $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, string(*filter.To))
		clause := fmt.Sprintf("to_location = $%d", len(args))
		if where == "" {
			where = " WHERE " + clause
		} else {
			where += " AND " + clause
		}
	}

	var total int
	if err := r.rs.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM forwarding_requests`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count requests: %w", err)
	}

	query := `SELECT ` + requestColumns + ` FROM forwarding_requests` + where +
		` ORDER BY created_at DESC, id` +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	rows, err := r.rs.q.QueryContext(ctx, query, append(args, opts.Limit, opts.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("query requests: %w", err)
	}
	defer rows.Close()

	var out []*models.ForwardingRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan request: %w", err)
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate requests: %w", err)
	}
	return out, total, nil
}

func (r *requestsRepo) Update(ctx context.Context, req *models.ForwardingRequest) error {
	res, err := r.rs.q.ExecContext(ctx, `
		UPDATE forwarding_requests
		SET status = $2, rejection_reason = $3, resolved_by = $4, resolved_at = $5
		WHERE id = $1`,
		req.ID, string(req.Status), req.RejectionReason, nullUUID(req.ResolvedBy), req.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("update request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update request: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: request %s", domain.ErrNotFound, req.ID)
	}
	return nil
}

func (r *requestsRepo) PendingBySubject(ctx context.Context, kind models.SubjectKind, subjectID string) (*models.ForwardingRequest, error) {
	row := r.rs.q.QueryRowContext(ctx,
		r.rs.forUpdate(`SELECT `+requestColumns+` FROM forwarding_requests
		WHERE subject_kind = $1 AND subject_id = $2 AND status = $3`),
		string(kind), subjectID, string(models.RequestPending),
	)
	req, err := scanRequest(row)
	if err != nil {
		return nil, wrapNotFound(err, "no pending request for %s", subjectID)
	}
	return req, nil
}

func (r *requestsRepo) DeleteBySubject(ctx context.Context, kind models.SubjectKind, subjectID string) error {
	if _, err := r.rs.q.ExecContext(ctx, `
		DELETE FROM forwarding_requests WHERE subject_kind = $1 AND subject_id = $2`,
		string(kind), subjectID); err != nil {
		return fmt.Errorf("delete requests by subject: %w", err)
	}
	return nil
}

func scanRequest(row rowScanner) (*models.ForwardingRequest, error) {
	var req models.ForwardingRequest
	var kind, from, to, status string
	var resolvedBy uuid.NullUUID
	var resolvedAt sql.NullTime
	if err := row.Scan(
		&req.ID, &kind, &req.SubjectID, &from, &to,
		&status, &req.RejectionReason, &req.RequestedBy, &resolvedBy, &resolvedAt, &req.CreatedAt,
	); err != nil {
		return nil, err
	}
	req.SubjectKind = models.SubjectKind(kind)
	req.From = models.Location(from)
	req.To = models.Location(to)
	req.Status = models.RequestStatus(status)
	if resolvedBy.Valid {
		req.ResolvedBy = resolvedBy.UUID
	}
	if resolvedAt.Valid {
		t := resolvedAt.Time
		req.ResolvedAt = &t
	}
	return &req, nil
}

func nullUUID(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: id != uuid.Nil}
}
