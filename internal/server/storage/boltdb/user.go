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

// userRecord is the on-disk form of a user; models.User hides the hash from JSON.
type userRecord struct {
	CreatedAt    time.Time `json:"created_at"`
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"password_hash"`
}

func (r userRecord) toModel() *models.User {
	return &models.User{
		ID:           r.ID,
		Username:     r.Username,
		Name:         r.Name,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}
}

// CreateUser creates a new user in the storage
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		users := tx.Bucket(bucketUsers)
		usernames := tx.Bucket(bucketUsernames)

		if usernames.Get([]byte(user.Username)) != nil {
			return storage.ErrUserAlreadyExists
		}

		data, err := json.Marshal(userRecord{
			ID:           user.ID,
			Username:     user.Username,
			Name:         user.Name,
			PasswordHash: user.PasswordHash,
			CreatedAt:    user.CreatedAt,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal user: %w", err)
		}

		seq, err := users.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate user key: %w", err)
		}
		key := seqKey(seq)

		if err := users.Put(key, data); err != nil {
			return fmt.Errorf("failed to save user: %w", err)
		}
		if err := tx.Bucket(bucketUserIDs).Put([]byte(user.ID), key); err != nil {
			return fmt.Errorf("failed to index user id: %w", err)
		}
		if err := usernames.Put([]byte(user.Username), key); err != nil {
			return fmt.Errorf("failed to index username: %w", err)
		}

		return nil
	})
}

// GetUserByUsername retrieves user by username
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getUser(bucketUsernames, username)
}

// GetUserByID retrieves user by ID
func (s *Storage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	return s.getUser(bucketUserIDs, userID)
}

// ListUsers returns all users in creation order
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	users := make([]*models.User, 0)

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketUsers).ForEach(func(k, v []byte) error {
			var rec userRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("failed to unmarshal user: %w", err)
			}
			users = append(users, rec.toModel())
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return users, nil
}

// getUser ищет пользователя через индексный bucket
func (s *Storage) getUser(index []byte, value string) (*models.User, error) {
	var user *models.User

	err := s.db.View(func(tx *bbolt.Tx) error {
		key := tx.Bucket(index).Get([]byte(value))
		if key == nil {
			return storage.ErrUserNotFound
		}

		data := tx.Bucket(bucketUsers).Get(key)
		if data == nil {
			return storage.ErrUserNotFound
		}

		var rec userRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("failed to unmarshal user: %w", err)
		}
		user = rec.toModel()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}
