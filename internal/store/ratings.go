package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/matatuconnect/backend/internal/model"
)

// CreateRating records a sacco rating. The sacco must exist.
func CreateRating(ctx context.Context, db *sql.DB, saccoID int64, cleanliness, safety, service int, reviewText string, ratedBy *int64) (*model.Rating, error) {
	var exists int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM saccos WHERE id = ?`, saccoID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking sacco: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("sacco %d: %w", saccoID, ErrNotFound)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO ratings (sacco_id, cleanliness_rating, safety_rating, service_rating, review_text, rated_by)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		saccoID, cleanliness, safety, service, reviewText, ratedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("creating rating: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting rating id: %w", err)
	}

	return GetRating(ctx, db, id)
}

// GetRating returns a rating by ID with sacco name and computed average.
func GetRating(ctx context.Context, db *sql.DB, id int64) (*model.Rating, error) {
	r := &model.Rating{}
	var reviewText sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT r.id, r.sacco_id, r.cleanliness_rating, r.safety_rating, r.service_rating,
		        r.review_text, r.rated_by, r.created_at, s.name,
		        ROUND((r.cleanliness_rating + r.safety_rating + r.service_rating) / 3.0, 1)
		 FROM ratings r
		 JOIN saccos s ON s.id = r.sacco_id
		 WHERE r.id = ?`, id,
	).Scan(&r.ID, &r.SaccoID, &r.Cleanliness, &r.Safety, &r.Service,
		&reviewText, &r.RatedBy, &r.CreatedAt, &r.SaccoName, &r.Average)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting rating: %w", err)
	}
	r.ReviewText = reviewText.String
	return r, nil
}

// ListRatings returns ratings newest first, optionally filtered by sacco.
func ListRatings(ctx context.Context, db *sql.DB, saccoID int64) ([]model.Rating, error) {
	query := `SELECT r.id, r.sacco_id, r.cleanliness_rating, r.safety_rating, r.service_rating,
	                 r.review_text, r.rated_by, r.created_at, s.name,
	                 ROUND((r.cleanliness_rating + r.safety_rating + r.service_rating) / 3.0, 1)
	          FROM ratings r
	          JOIN saccos s ON s.id = r.sacco_id`
	var args []any

	if saccoID > 0 {
		query += ` WHERE r.sacco_id = ?`
		args = append(args, saccoID)
	}

	query += ` ORDER BY r.created_at DESC, r.id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing ratings: %w", err)
	}
	defer rows.Close()

	var ratings []model.Rating
	for rows.Next() {
		var r model.Rating
		var reviewText sql.NullString
		if err := rows.Scan(&r.ID, &r.SaccoID, &r.Cleanliness, &r.Safety, &r.Service,
			&reviewText, &r.RatedBy, &r.CreatedAt, &r.SaccoName, &r.Average); err != nil {
			return nil, fmt.Errorf("scanning rating: %w", err)
		}
		r.ReviewText = reviewText.String
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}

// DeleteRating removes a rating.
func DeleteRating(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM ratings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting rating: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("rating %d: %w", id, ErrNotFound)
	}
	return nil
}
