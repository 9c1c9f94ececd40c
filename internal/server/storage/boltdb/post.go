package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/bloglist/internal/models"
	"github.com/iudanet/bloglist/internal/server/storage"
)

// CreatePost inserts a post under the next sequence key
func (s *Storage) CreatePost(ctx context.Context, post *models.Post) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		posts := tx.Bucket(bucketPosts)

		data, err := json.Marshal(post)
		if err != nil {
			return fmt.Errorf("failed to marshal post: %w", err)
		}

		seq, err := posts.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate post key: %w", err)
		}
		key := seqKey(seq)

		if err := posts.Put(key, data); err != nil {
			return fmt.Errorf("failed to save post: %w", err)
		}
		if err := tx.Bucket(bucketPostIDs).Put([]byte(post.ID), key); err != nil {
			return fmt.Errorf("failed to index post id: %w", err)
		}

		return nil
	})
}

// ListPosts returns all posts in insertion order
func (s *Storage) ListPosts(ctx context.Context) ([]*models.Post, error) {
	return s.scanPosts(func(*models.Post) bool { return true })
}

// ListPostsByOwner returns posts owned by userID
func (s *Storage) ListPostsByOwner(ctx context.Context, userID string) ([]*models.Post, error) {
	return s.scanPosts(func(p *models.Post) bool { return p.OwnedBy(userID) })
}

// GetPost retrieves a post by its public ID
func (s *Storage) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var post *models.Post

	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		_, post, err = loadPost(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return post, nil
}

// UpdatePost reads, patches and writes the post inside one write transaction
func (s *Storage) UpdatePost(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error) {
	var post *models.Post

	err := s.db.Update(func(tx *bbolt.Tx) error {
		key, current, err := loadPost(tx, id)
		if err != nil {
			return err
		}

		patch.Apply(current)
		current.UpdatedAt = time.Now().UTC()

		data, err := json.Marshal(current)
		if err != nil {
			return fmt.Errorf("failed to marshal post: %w", err)
		}
		if err := tx.Bucket(bucketPosts).Put(key, data); err != nil {
			return fmt.Errorf("failed to update post: %w", err)
		}

		post = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	return post, nil
}

// DeletePost removes the post and its id index entry
func (s *Storage) DeletePost(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		ids := tx.Bucket(bucketPostIDs)

		key := ids.Get([]byte(id))
		if key == nil {
			return storage.ErrPostNotFound
		}
		// копируем ключ: значение из bbolt валидно только до изменения bucket
		key = append([]byte(nil), key...)

		if err := tx.Bucket(bucketPosts).Delete(key); err != nil {
			return fmt.Errorf("failed to delete post: %w", err)
		}
		if err := ids.Delete([]byte(id)); err != nil {
			return fmt.Errorf("failed to delete post index: %w", err)
		}

		return nil
	})
}

func (s *Storage) scanPosts(keep func(*models.Post) bool) ([]*models.Post, error) {
	posts := make([]*models.Post, 0)

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketPosts).ForEach(func(k, v []byte) error {
			post := &models.Post{}
			if err := json.Unmarshal(v, post); err != nil {
				return fmt.Errorf("failed to unmarshal post: %w", err)
			}
			if keep(post) {
				posts = append(posts, post)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return posts, nil
}

// loadPost returns the sequence key and decoded post for a public id
func loadPost(tx *bbolt.Tx, id string) ([]byte, *models.Post, error) {
	key := tx.Bucket(bucketPostIDs).Get([]byte(id))
	if key == nil {
		return nil, nil, storage.ErrPostNotFound
	}
	key = append([]byte(nil), key...)

	data := tx.Bucket(bucketPosts).Get(key)
	if data == nil {
		return nil, nil, storage.ErrPostNotFound
	}

	post := &models.Post{}
	if err := json.Unmarshal(data, post); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal post: %w", err)
	}

	return key, post, nil
}
