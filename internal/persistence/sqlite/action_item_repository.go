package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nessimus/workday-scheduler/internal/persistence"
)

// ActionItemRepository implements persistence.ActionItemRepository on SQLite.
type ActionItemRepository struct {
	db *DB
}

// NewActionItemRepository returns a repository bound to db.
func NewActionItemRepository(db *DB) *ActionItemRepository {
	return &ActionItemRepository{db: db}
}

const actionItemColumns = `id, company_id, status_id, owner_employee_id, kind, due_at, last_started_at, start_count, created_at, updated_at`

// CreateActionItem inserts a new action item.
func (r *ActionItemRepository) CreateActionItem(ctx context.Context, item persistence.ActionItem) error {
	_, err := r.db.db.ExecContext(ctx,
		`INSERT INTO action_items (`+actionItemColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID,
		item.CompanyID,
		item.StatusID,
		item.OwnerEmployeeID,
		item.Kind,
		nullableTime(item.DueAt),
		nullableTime(item.LastStartedAt),
		item.StartCount,
		formatTime(item.CreatedAt),
		formatTime(item.UpdatedAt),
	)
	return mapError(err)
}

// GetActionItem retrieves one action item by id.
func (r *ActionItemRepository) GetActionItem(ctx context.Context, id string) (persistence.ActionItem, error) {
	row := r.db.db.QueryRowContext(ctx, `SELECT `+actionItemColumns+` FROM action_items WHERE id = ?`, id)
	return scanActionItem(row)
}

// ListActionItems returns the company's action items ordered by creation
// time then id.
func (r *ActionItemRepository) ListActionItems(ctx context.Context, companyID string) ([]persistence.ActionItem, error) {
	rows, err := r.db.db.QueryContext(ctx,
		`SELECT `+actionItemColumns+` FROM action_items WHERE company_id = ? ORDER BY created_at, id`, companyID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var items []persistence.ActionItem
	for rows.Next() {
		item, err := scanActionItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// MarkStarted advances the start bookkeeping of every listed item inside
// one transaction: StartCount increments monotonically and LastStartedAt is
// set to the dispatch instant. Unknown ids are skipped silently, matching
// the dispatch protocol's lack of a failure channel.
func (r *ActionItemRepository) MarkStarted(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, id := range ids {
			_, err := tx.ExecContext(ctx,
				`UPDATE action_items
					SET start_count = start_count + 1, last_started_at = ?, updated_at = ?
					WHERE id = ?`,
				formatTime(at), formatTime(at), id)
			if err != nil {
				return mapError(err)
			}
		}
		return nil
	})
}

// DeleteActionItem removes one action item by id.
func (r *ActionItemRepository) DeleteActionItem(ctx context.Context, id string) error {
	result, err := r.db.db.ExecContext(ctx, `DELETE FROM action_items WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func scanActionItem(row rowScanner) (persistence.ActionItem, error) {
	var (
		item          persistence.ActionItem
		dueAt         sql.NullString
		lastStartedAt sql.NullString
		createdAt     string
		updatedAt     string
	)

	err := row.Scan(
		&item.ID,
		&item.CompanyID,
		&item.StatusID,
		&item.OwnerEmployeeID,
		&item.Kind,
		&dueAt,
		&lastStartedAt,
		&item.StartCount,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.ActionItem{}, mapError(err)
	}

	if item.DueAt, err = scanNullableTime(dueAt); err != nil {
		return persistence.ActionItem{}, fmt.Errorf("sqlite: action item %s due_at: %w", item.ID, err)
	}
	if item.LastStartedAt, err = scanNullableTime(lastStartedAt); err != nil {
		return persistence.ActionItem{}, fmt.Errorf("sqlite: action item %s last_started_at: %w", item.ID, err)
	}
	if item.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.ActionItem{}, fmt.Errorf("sqlite: action item %s created_at: %w", item.ID, err)
	}
	if item.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.ActionItem{}, fmt.Errorf("sqlite: action item %s updated_at: %w", item.ID, err)
	}
	return item, nil
}
