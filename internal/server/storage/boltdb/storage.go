// Package boltdb is an embedded key/value storage backend built on bbolt.
package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/bloglist/internal/server/storage"
)

var (
	// BoltDB bucket names
	bucketUsers     = []byte("users")     // seq -> userRecord
	bucketUserIDs   = []byte("user_ids")  // user id -> seq
	bucketUsernames = []byte("usernames") // username -> seq
	bucketPosts     = []byte("posts")     // seq -> post JSON
	bucketPostIDs   = []byte("post_ids")  // post id -> seq
)

// Storage represents BoltDB storage implementation
type Storage struct {
	db *bbolt.DB
}

var _ storage.Store = (*Storage)(nil)

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string) (*Storage, error) {
	// Таймаут на случай, если файл заблокирован другим процессом
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	s := &Storage{db: db}

	if err := s.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return s, nil
}

// Ping checks that the database file is still open
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketPosts) == nil {
			return fmt.Errorf("posts bucket not found")
		}
		return nil
	})
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketUsers, bucketUserIDs, bucketUsernames, bucketPosts, bucketPostIDs} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

// seqKey кодирует sequence в big-endian, чтобы ForEach шел в порядке вставки
func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
