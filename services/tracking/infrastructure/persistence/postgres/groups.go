package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/steritrack/services/tracking/domain"
	"github.com/ghuser/steritrack/services/tracking/domain/models"
	"github.com/ghuser/steritrack/services/tracking/domain/repositories"
)

type groupsRepo struct {
	rs *repoSet
}

const groupColumns = "id, name, location, created_at, updated_at"

func (r *groupsRepo) Insert(ctx context.Context, group *models.Group) error {
	_, err := r.rs.q.ExecContext(ctx, `
		INSERT INTO item_groups (`+groupColumns+`)
		VALUES ($1, $2, $3, $4, $5)`,
		group.ID, group.Name, string(group.Location), group.CreatedAt, group.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: group %s already exists", domain.ErrConflict, group.ID)
		}
		return fmt.Errorf("insert group: %w", err)
	}
	return nil
}

func (r *groupsRepo) Get(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	row := r.rs.q.QueryRowContext(ctx,
		r.rs.forUpdate(`SELECT `+groupColumns+` FROM item_groups WHERE id = $1`), id)
	group, err := scanGroup(row)
	if err != nil {
		return nil, wrapNotFound(err, "group %s", id)
	}
	return group, nil
}

func (r *groupsRepo) Find(ctx context.Context, location *models.Location, opts repositories.QueryOpts) ([]*models.Group, int, error) {
	where := ""
	var args []any
	if location != nil {
		where = " WHERE location = $1"
		args = append(args, string(*location))
	}

	var total int
	if err := r.rs.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM item_groups`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count groups: %w", err)
	}

	query := `SELECT ` + groupColumns + ` FROM item_groups` + where +
		` ORDER BY created_at DESC, id` +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	rows, err := r.rs.q.QueryContext(ctx, query, append(args, opts.Limit, opts.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("query groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate groups: %w", err)
	}
	return groups, total, nil
}

func (r *groupsRepo) Update(ctx context.Context, group *models.Group) error {
	res, err := r.rs.q.ExecContext(ctx, `
		UPDATE item_groups
		SET name = $2, location = $3, updated_at = $4
		WHERE id = $1`,
		group.ID, group.Name, string(group.Location), group.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update group: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update group: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: group %s", domain.ErrNotFound, group.ID)
	}
	return nil
}

func (r *groupsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.rs.q.ExecContext(ctx, `DELETE FROM item_groups WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	return nil
}

func (r *groupsRepo) InsertMembership(ctx context.Context, m *models.Membership) error {
	_, err := r.rs.q.ExecContext(ctx, `
		INSERT INTO group_memberships (id, group_id, item_id, created_at)
		VALUES ($1, $2, $3, $4)`,
		m.ID, m.GroupID, m.ItemID, m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: item %s already grouped", domain.ErrConflict, m.ItemID)
		}
		return fmt.Errorf("insert membership: %w", err)
	}
	return nil
}

func (r *groupsRepo) Memberships(ctx context.Context, groupID uuid.UUID) ([]*models.Membership, error) {
	rows, err := r.rs.q.QueryContext(ctx, `
		SELECT id, group_id, item_id, created_at
		FROM group_memberships
		WHERE group_id = $1
		ORDER BY item_id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("query memberships: %w", err)
	}
	defer rows.Close()

	var out []*models.Membership
	for rows.Next() {
		var m models.Membership
		if err := rows.Scan(&m.ID, &m.GroupID, &m.ItemID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate memberships: %w", err)
	}
	return out, nil
}

func (r *groupsRepo) MembershipForItem(ctx context.Context, itemID string) (*models.Membership, error) {
	var m models.Membership
	err := r.rs.q.QueryRowContext(ctx, `
		SELECT id, group_id, item_id, created_at
		FROM group_memberships
		WHERE item_id = $1`,
		itemID,
	).Scan(&m.ID, &m.GroupID, &m.ItemID, &m.CreatedAt)
	if err != nil {
		return nil, wrapNotFound(err, "item %s is not grouped", itemID)
	}
	return &m, nil
}

func (r *groupsRepo) DeleteMembership(ctx context.Context, groupID uuid.UUID, itemID string) error {
	res, err := r.rs.q.ExecContext(ctx, `
		DELETE FROM group_memberships WHERE group_id = $1 AND item_id = $2`,
		groupID, itemID,
	)
	if err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: membership of %s in %s", domain.ErrNotFound, itemID, groupID)
	}
	return nil
}

func (r *groupsRepo) DeleteMemberships(ctx context.Context, groupID uuid.UUID) error {
	if _, err := r.rs.q.ExecContext(ctx,
		`DELETE FROM group_memberships WHERE group_id = $1`, groupID); err != nil {
		return fmt.Errorf("delete memberships: %w", err)
	}
	return nil
}

func scanGroup(row rowScanner) (*models.Group, error) {
	var group models.Group
	var location string
	if err := row.Scan(&group.ID, &group.Name, &location, &group.CreatedAt, &group.UpdatedAt); err != nil {
		return nil, err
	}
	group.Location = models.Location(location)
	return &group, nil
}
