package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iudanet/bloglist/internal/models"
	"github.com/iudanet/bloglist/internal/server/storage"
)

const postColumns = `id, title, author, url, likes, owner_id, created_at, updated_at`

// CreatePost inserts a post
func (s *Storage) CreatePost(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (id, title, author, url, likes, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.pool.Exec(ctx, query,
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
	query := `SELECT ` + postColumns + ` FROM posts WHERE owner_id = $1 ORDER BY seq`
	return s.queryPosts(ctx, query, userID)
}

// GetPost retrieves a post by its public ID
func (s *Storage) GetPost(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	return scanPost(s.pool.QueryRow(ctx, query, id))
}

// UpdatePost applies patch in one UPDATE ... RETURNING statement
func (s *Storage) UpdatePost(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error) {
	query := `
		UPDATE posts
		SET title = COALESCE($1, title),
		    author = COALESCE($2, author),
		    url = COALESCE($3, url),
		    likes = COALESCE($4, likes),
		    updated_at = $5
		WHERE id = $6
		RETURNING ` + postColumns

	row := s.pool.QueryRow(ctx, query,
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
	tag, err := s.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrPostNotFound
	}

	return nil
}

func (s *Storage) queryPosts(ctx context.Context, query string, args ...any) ([]*models.Post, error) {
	rows, err := s.pool.Query(ctx, query, args...)
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

func scanPost(row pgx.Row) (*models.Post, error) {
	post := &models.Post{}

	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Author,
		&post.URL,
		&post.Likes,
		&post.OwnerID,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to scan post: %w", err)
	}

	return post, nil
}
