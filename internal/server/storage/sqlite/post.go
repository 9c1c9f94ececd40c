package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/bloglist/internal/models"
	"github.com/iudanet/bloglist/internal/server/storage"
)

const postColumns = `id, title, author, url, likes, owner_id, created_at, updated_at`

// CreatePost inserts a post. The internal seq column keeps insertion order,
// the public id is the UUID set by the caller.
func (s *Storage) CreatePost(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (id, title, author, url, likes, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		post.ID,
		post.Title,
		post.Author,
		post.URL,
		post.Likes,
		post.OwnerID,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	return nil
}

// ListPosts returns all posts in insertion order
func (s *Storage) ListPosts(ctx context.Context) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY seq`
	return s.queryPosts(ctx, query)
}

// ListPostsByOwner returns posts owned by userID
func (s *Storage) ListPostsByOwner(ctx context.Context, userID string) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE owner_id = ? ORDER BY seq`
	return s.queryPosts(ctx, query, userID)
}

// GetPost retrieves a post by its public ID
func (s *Storage) GetPost(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = ?`
	return scanPost(s.db.QueryRowContext(ctx, query, id))
}

// UpdatePost applies patch in a single UPDATE ... RETURNING statement.
// NULL parameters keep the stored value.
func (s *Storage) UpdatePost(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error) {
	query := `
		UPDATE posts
		SET title = COALESCE(?, title),
		    author = COALESCE(?, author),
		    url = COALESCE(?, url),
		    likes = COALESCE(?, likes),
		    updated_at = ?
		WHERE id = ?
		RETURNING ` + postColumns

	row := s.db.QueryRowContext(ctx, query,
		patch.Title,
		patch.Author,
		patch.URL,
		patch.Likes,
		time.Now().UTC(),
		id,
	)

	return scanPost(row)
}

// DeletePost removes a post
func (s *Storage) DeletePost(ctx context.Context, id string) error {
	query := `DELETE FROM posts WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrPostNotFound
	}

	return nil
}

func (s *Storage) queryPosts(ctx context.Context, query string, args ...any) ([]*models.Post, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*models.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}

	return posts, nil
}

func scanPost(row rowScanner) (*models.Post, error) {
	post := &models.Post{}
	var ownerID sql.NullString

	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Author,
		&post.URL,
		&post.Likes,
		&ownerID,
		&post.CreatedAt,
		&post.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to scan post: %w", err)
	}

	if ownerID.Valid {
		post.OwnerID = &ownerID.String
	}

	return post, nil
}
