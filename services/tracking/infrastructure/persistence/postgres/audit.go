package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ghuser/steritrack/services/tracking/domain/models"
	"github.com/ghuser/steritrack/services/tracking/domain/repositories"
)

type auditRepo struct {
	rs *repoSet
}

const auditColumns = "id, item_id, item_name, company_prefix, action, from_location, to_location, actor_id, actor_username, actor_role, occurred_at"

func (r *auditRepo) Append(ctx context.Context, rec *models.AuditRecord) error {
	_, err := r.rs.q.ExecContext(ctx, `
		INSERT INTO audit_records (`+auditColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID, rec.ItemID, rec.ItemName, rec.CompanyPrefix, string(rec.Action),
		string(rec.From), string(rec.To), rec.ActorID, rec.ActorUsername,
		string(rec.ActorRole), rec.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append audit record: %w", err)
	}
	if err := r.rs.publishAuditAppended(rec); err != nil {
		return err
	}
	return nil
}

func (r *auditRepo) Find(ctx context.Context, filter repositories.AuditFilter, opts repositories.QueryOpts) ([]*models.AuditRecord, int, error) {
	var clauses []string
	var args []any

	add := func(clause string, arg any) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.ItemID != "" {
		add("item_id = $%d", filter.ItemID)
	}
	if filter.Action != nil {
		add("action = $%d", string(*filter.Action))
	}
	if filter.ActorID != uuid.Nil {
		add("actor_id = $%d", filter.ActorID)
	}
	if filter.From != nil {
		add("occurred_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("occurred_at <= $%d", *filter.To)
	}

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	var total int
	if err := r.rs.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM audit_records`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit records: %w", err)
	}

	query := `SELECT ` + auditColumns + ` FROM audit_records` + where +
		` ORDER BY occurred_at DESC, id` +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	rows, err := r.rs.q.QueryContext(ctx, query, append(args, opts.Limit, opts.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("query audit records: %w", err)
	}
	defer rows.Close()

	var out []*models.AuditRecord
	for rows.Next() {
		rec, err := scanAuditRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan audit record: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate audit records: %w", err)
	}
	return out, total, nil
}

func (r *auditRepo) LatestByItemAction(ctx context.Context, itemID string, action models.Action) (*models.AuditRecord, error) {
	row := r.rs.q.QueryRowContext(ctx, `
		SELECT `+auditColumns+` FROM audit_records
		WHERE item_id = $1 AND action = $2
		ORDER BY occurred_at DESC
		LIMIT 1`,
		itemID, string(action),
	)
	rec, err := scanAuditRecord(row)
	if err != nil {
		return nil, wrapNotFound(err, "no %s record for %s", action, itemID)
	}
	return rec, nil
}

func (r *auditRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.rs.q.ExecContext(ctx, `DELETE FROM audit_records`); err != nil {
		return fmt.Errorf("delete all audit records: %w", err)
	}
	return nil
}

func scanAuditRecord(row rowScanner) (*models.AuditRecord, error) {
	var rec models.AuditRecord
	var action, from, to, role string
	if err := row.Scan(
		&rec.ID, &rec.ItemID, &rec.ItemName, &rec.CompanyPrefix, &action,
		&from, &to, &rec.ActorID, &rec.ActorUsername, &role, &rec.Timestamp,
	); err != nil {
		return nil, err
	}
	rec.Action = models.Action(action)
	rec.From = models.Location(from)
	rec.To = models.Location(to)
	rec.ActorRole = models.Role(role)
	return &rec, nil
}
