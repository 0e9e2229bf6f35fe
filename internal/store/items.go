package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/matatuconnect/backend/internal/model"
)

// CreateLostItem records a lost/found item reported by a driver.
func CreateLostItem(ctx context.Context, db *sql.DB, item, route, sacco, foundOn, description string, reportedBy int64) (*model.LostItem, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO lost_items (item, route, sacco, found_on, description, reported_by)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		item, route, sacco, foundOn, description, reportedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("creating lost item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting lost item id: %w", err)
	}

	return GetLostItem(ctx, db, id)
}

// GetLostItem returns a lost item by ID.
func GetLostItem(ctx context.Context, db *sql.DB, id int64) (*model.LostItem, error) {
	it := &model.LostItem{}
	var description, photoMime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT li.id, li.item, li.route, li.sacco, li.found_on, li.description,
		        li.photo_mime, li.reported_by, li.created_at, u.username
		 FROM lost_items li
		 JOIN users u ON u.id = li.reported_by
		 WHERE li.id = ?`, id,
	).Scan(&it.ID, &it.Item, &it.Route, &it.Sacco, &it.FoundOn, &description,
		&photoMime, &it.ReportedBy, &it.CreatedAt, &it.ReporterName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting lost item: %w", err)
	}
	it.Description = description.String
	it.PhotoMime = photoMime.String
	return it, nil
}

// ListLostItems returns all lost items, newest report date first. If
// reportedBy is positive, only items reported by that user are returned.
func ListLostItems(ctx context.Context, db *sql.DB, reportedBy int64) ([]model.LostItem, error) {
	query := `SELECT li.id, li.item, li.route, li.sacco, li.found_on, li.description,
	                 li.photo_mime, li.reported_by, li.created_at, u.username
	          FROM lost_items li
	          JOIN users u ON u.id = li.reported_by`
	var args []any

	if reportedBy > 0 {
		query += ` WHERE li.reported_by = ?`
		args = append(args, reportedBy)
	}

	query += ` ORDER BY li.found_on DESC, li.id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing lost items: %w", err)
	}
	defer rows.Close()

	var items []model.LostItem
	for rows.Next() {
		var it model.LostItem
		var description, photoMime sql.NullString
		if err := rows.Scan(&it.ID, &it.Item, &it.Route, &it.Sacco, &it.FoundOn, &description,
			&photoMime, &it.ReportedBy, &it.CreatedAt, &it.ReporterName); err != nil {
			return nil, fmt.Errorf("scanning lost item: %w", err)
		}
		it.Description = description.String
		it.PhotoMime = photoMime.String
		items = append(items, it)
	}
	return items, rows.Err()
}

// SetLostItemPhoto sets a lost item's photo data.
func SetLostItemPhoto(ctx context.Context, db *sql.DB, id int64, photo []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE lost_items SET photo = ?, photo_mime = ? WHERE id = ?`,
		photo, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting lost item photo: %w", err)
	}
	return nil
}

// GetLostItemPhoto returns a lost item's photo data and MIME type.
func GetLostItemPhoto(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var photo []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT photo, photo_mime FROM lost_items WHERE id = ?`, id,
	).Scan(&photo, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting lost item photo: %w", err)
	}
	return photo, mime.String, nil
}

// DeleteLostItemByDriver deletes a lost item on behalf of the driver who
// reported it. The item must have at least one approved claim; its claims
// are removed with it by the foreign key cascade.
func DeleteLostItemByDriver(ctx context.Context, db *sql.DB, id, driverID int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var reportedBy int64
	err = tx.QueryRowContext(ctx,
		`SELECT reported_by FROM lost_items WHERE id = ?`, id,
	).Scan(&reportedBy)
	if err == sql.ErrNoRows {
		return fmt.Errorf("lost item %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("getting lost item owner: %w", err)
	}

	if reportedBy != driverID {
		return fmt.Errorf("lost item %d is not reported by caller: %w", id, ErrPermissionDenied)
	}

	var approved int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM claims WHERE lost_item_id = ? AND approved = 1`, id,
	).Scan(&approved)
	if err != nil {
		return fmt.Errorf("counting approved claims: %w", err)
	}
	if approved == 0 {
		return fmt.Errorf("lost item %d has no approved claim: %w", id, ErrPermissionDenied)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM lost_items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting lost item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}
	return nil
}

// DeleteLostItemByAdmin deletes a lost item unconditionally (admin override).
// Claims are removed with it by the foreign key cascade.
func DeleteLostItemByAdmin(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM lost_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting lost item: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("lost item %d: %w", id, ErrNotFound)
	}
	return nil
}
