package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/ghuser/steritrack/services/tracking/domain"
	"github.com/ghuser/steritrack/services/tracking/domain/models"
	"github.com/ghuser/steritrack/services/tracking/domain/repositories"
)

type itemsRepo struct {
	rs *repoSet
}

const itemColumns = "id, company_prefix, type_code, serial, name, status, location, created_at, updated_at"

func (r *itemsRepo) Insert(ctx context.Context, item *models.Item) error {
	_, err := r.rs.q.ExecContext(ctx, `
		INSERT INTO items (`+itemColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		item.ID, item.CompanyPrefix, item.TypeCode, item.Serial, item.Name,
		item.Status.String(), string(item.Location), item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: item %s already exists", domain.ErrConflict, item.ID)
		}
		return fmt.Errorf("insert item: %w", err)
	}
	if err := r.rs.publishItemChanged(item); err != nil {
		return err
	}
	return nil
}

func (r *itemsRepo) Get(ctx context.Context, id string) (*models.Item, error) {
	row := r.rs.q.QueryRowContext(ctx,
		r.rs.forUpdate(`SELECT `+itemColumns+` FROM items WHERE id = $1`), id)
	item, err := scanItem(row)
	if err != nil {
		return nil, wrapNotFound(err, "item %s", id)
	}
	return item, nil
}

func (r *itemsRepo) Find(ctx context.Context, filter repositories.ItemFilter, opts repositories.QueryOpts) ([]*models.Item, int, error) {
	where, args := itemWhere(filter)

	var total int
	if err := r.rs.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	query := `SELECT ` + itemColumns + ` FROM items` + where +
		` ORDER BY created_at DESC, id` +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	rows, err := r.rs.q.QueryContext(ctx, query, append(args, opts.Limit, opts.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate items: %w", err)
	}
	return items, total, nil
}

func (r *itemsRepo) Update(ctx context.Context, item *models.Item) error {
	res, err := r.rs.q.ExecContext(ctx, `
		UPDATE items
		SET name = $2, status = $3, location = $4, updated_at = $5
		WHERE id = $1`,
		item.ID, item.Name, item.Status.String(), string(item.Location), item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: item %s", domain.ErrNotFound, item.ID)
	}
	if err := r.rs.publishItemChanged(item); err != nil {
		return err
	}
	return nil
}

func (r *itemsRepo) MaxSerial(ctx context.Context, prefix, typeCode string) (int, error) {
	var max int
	err := r.rs.q.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(serial), 0) FROM items
		WHERE company_prefix = $1 AND type_code = $2`,
		prefix, typeCode,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max serial: %w", err)
	}
	return max, nil
}

func (r *itemsRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.rs.q.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return fmt.Errorf("delete all items: %w", err)
	}
	return nil
}

// itemWhere builds the WHERE clause and args for an ItemFilter.
func itemWhere(filter repositories.ItemFilter) (string, []any) {
	var clauses []string
	var args []any

	add := func(clause string, arg any) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if !filter.IncludeRemoved {
		add("location <> $%d", string(models.LocationRemoved))
	}
	if filter.Location != nil {
		add("location = $%d", string(*filter.Location))
	}
	if filter.CompanyPrefix != "" {
		add("company_prefix = $%d", filter.CompanyPrefix)
	}
	if filter.TypeCode != "" {
		add("type_code = $%d", filter.TypeCode)
	}
	if filter.Status != nil {
		add("status = $%d", filter.Status.String())
	}
	if filter.Ungrouped {
		clauses = append(clauses, "id NOT IN (SELECT item_id FROM group_memberships)")
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*models.Item, error) {
	var item models.Item
	var status, location string
	if err := row.Scan(
		&item.ID, &item.CompanyPrefix, &item.TypeCode, &item.Serial, &item.Name,
		&status, &location, &item.CreatedAt, &item.UpdatedAt,
	); err != nil {
		return nil, err
	}
	item.Status = models.Status(status)
	item.Location = models.Location(location)
	return &item, nil
}
