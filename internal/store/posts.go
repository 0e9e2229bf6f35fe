package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/matatuconnect/backend/internal/model"
)

// CreatePost records a road update.
func CreatePost(ctx context.Context, db *sql.DB, postType, description string, postedBy *int64) (*model.Post, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO posts (type, description, posted_by) VALUES (?, ?, ?)`,
		postType, description, postedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting post id: %w", err)
	}

	return GetPost(ctx, db, id)
}

// GetPost returns a post by ID.
func GetPost(ctx context.Context, db *sql.DB, id int64) (*model.Post, error) {
	p := &model.Post{}
	var photoMime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, type, description, photo_mime, posted_by, created_at
		 FROM posts WHERE id = ?`, id,
	).Scan(&p.ID, &p.Type, &p.Description, &photoMime, &p.PostedBy, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting post: %w", err)
	}
	p.PhotoMime = photoMime.String
	return p, nil
}

// ListPosts returns posts newest first, optionally filtered by type.
func ListPosts(ctx context.Context, db *sql.DB, postType string) ([]model.Post, error) {
	var rows *sql.Rows
	var err error

	if postType != "" {
		rows, err = db.QueryContext(ctx,
			`SELECT id, type, description, photo_mime, posted_by, created_at
			 FROM posts WHERE type = ? ORDER BY created_at DESC, id DESC`, postType,
		)
	} else {
		rows, err = db.QueryContext(ctx,
			`SELECT id, type, description, photo_mime, posted_by, created_at
			 FROM posts ORDER BY created_at DESC, id DESC`,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		var p model.Post
		var photoMime sql.NullString
		if err := rows.Scan(&p.ID, &p.Type, &p.Description, &photoMime, &p.PostedBy, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning post: %w", err)
		}
		p.PhotoMime = photoMime.String
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// SetPostPhoto sets a post's photo data.
func SetPostPhoto(ctx context.Context, db *sql.DB, id int64, photo []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE posts SET photo = ?, photo_mime = ? WHERE id = ?`,
		photo, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting post photo: %w", err)
	}
	return nil
}

// GetPostPhoto returns a post's photo data and MIME type.
func GetPostPhoto(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var photo []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT photo, photo_mime FROM posts WHERE id = ?`, id,
	).Scan(&photo, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting post photo: %w", err)
	}
	return photo, mime.String, nil
}

// DeletePost removes a post.
func DeletePost(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("post %d: %w", id, ErrNotFound)
	}
	return nil
}
