// Package auth verifies credentials, issues session tokens and decides who
// may mutate a post.
package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/iudanet/bloglist/internal/models"
	"github.com/iudanet/bloglist/internal/server/jwt"
	"github.com/iudanet/bloglist/internal/server/storage"
)

// Credentials verifies passwords against stored bcrypt hashes and
// converts identities to tokens and back.
type Credentials struct {
	users  storage.UserStorage
	tokens *jwt.Service
	// dummyHash сравнивается при неизвестном username, чтобы время ответа
	// не выдавало существование пользователя
	dummyHash []byte
	cost      int
}

// NewCredentials creates a credential service. cost is the bcrypt cost;
// values outside bcrypt's range fall back to bcrypt.DefaultCost.
func NewCredentials(users storage.UserStorage, tokens *jwt.Service, cost int) *Credentials {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("bloglist-dummy-password"), cost)
	if err != nil {
		dummy = nil
	}

	return &Credentials{
		users:     users,
		tokens:    tokens,
		cost:      cost,
		dummyHash: dummy,
	}
}

// HashPassword returns the bcrypt hash of password
func (c *Credentials) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify checks username/password. Unknown users and wrong passwords both
// yield ErrInvalidCredentials.
func (c *Credentials) Verify(ctx context.Context, username, password string) (*models.Identity, error) {
	user, err := c.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			if c.dummyHash != nil {
				_ = bcrypt.CompareHashAndPassword(c.dummyHash, []byte(password))
			}
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &models.Identity{UserID: user.ID, Username: user.Username}, nil
}

// IssueToken signs a session token for identity
func (c *Credentials) IssueToken(identity *models.Identity) (string, error) {
	if identity == nil || identity.UserID == "" {
		return "", fmt.Errorf("cannot issue token: empty identity")
	}
	return c.tokens.Generate(identity.UserID, identity.Username)
}

// ResolveToken returns the identity encoded in token. Pure signature and
// expiry check, no storage access.
func (c *Credentials) ResolveToken(token string) (*models.Identity, error) {
	claims, err := c.tokens.Validate(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return &models.Identity{UserID: claims.UserID, Username: claims.Username}, nil
}
