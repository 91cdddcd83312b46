package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/steritrack/services/tracking/domain/models"
	"github.com/ghuser/steritrack/services/tracking/domain/repositories"
)

type slotsRepo struct {
	rs *repoSet
}

const slotColumns = "id, subject_kind, subject_id, subject_name, position, assigned_by, created_at"

func (r *slotsRepo) Insert(ctx context.Context, slot *models.StorageSlot) error {
	_, err := r.rs.q.ExecContext(ctx, `
		INSERT INTO storage_slots (`+slotColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		slot.ID, string(slot.SubjectKind), slot.SubjectID, slot.SubjectName,
		slot.Position, slot.AssignedBy, slot.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert slot: %w", err)
	}
	return nil
}

func (r *slotsRepo) Find(ctx context.Context, opts repositories.QueryOpts) ([]*models.StorageSlot, int, error) {
	var total int
	if err := r.rs.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM storage_slots`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count slots: %w", err)
	}

	rows, err := r.rs.q.QueryContext(ctx, `
		SELECT `+slotColumns+` FROM storage_slots
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2`,
		opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("query slots: %w", err)
	}
	defer rows.Close()

	var out []*models.StorageSlot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan slot: %w", err)
		}
		out = append(out, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate slots: %w", err)
	}
	return out, total, nil
}

func (r *slotsRepo) Get(ctx context.Context, id uuid.UUID) (*models.StorageSlot, error) {
	row := r.rs.q.QueryRowContext(ctx,
		r.rs.forUpdate(`SELECT `+slotColumns+` FROM storage_slots WHERE id = $1`), id)
	slot, err := scanSlot(row)
	if err != nil {
		return nil, wrapNotFound(err, "slot %s", id)
	}
	return slot, nil
}

func (r *slotsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.rs.q.ExecContext(ctx,
		`DELETE FROM storage_slots WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	return nil
}

func (r *slotsRepo) DeleteBySubject(ctx context.Context, subjectID string) error {
	if _, err := r.rs.q.ExecContext(ctx,
		`DELETE FROM storage_slots WHERE subject_id = $1`, subjectID); err != nil {
		return fmt.Errorf("delete slots by subject: %w", err)
	}
	return nil
}

func scanSlot(row rowScanner) (*models.StorageSlot, error) {
	var slot models.StorageSlot
	var kind string
	if err := row.Scan(
		&slot.ID, &kind, &slot.SubjectID, &slot.SubjectName,
		&slot.Position, &slot.AssignedBy, &slot.CreatedAt,
	); err != nil {
		return nil, err
	}
	slot.SubjectKind = models.SubjectKind(kind)
	return &slot, nil
}
