package auth

import (
	"github.com/iudanet/bloglist/internal/models"
)

// TokenResolver turns an opaque token into an identity
type TokenResolver interface {
	ResolveToken(token string) (*models.Identity, error)
}

// Principal is the outcome of authenticating a request: either
// Unauthenticated (Identity == nil) or Authenticated(Identity).
type Principal struct {
	Identity *models.Identity
}

// Authenticated reports whether the principal carries an identity
func (p Principal) Authenticated() bool {
	return p.Identity != nil
}

// Authorizer decides whether a principal may act on a post.
type Authorizer struct {
	tokens TokenResolver
}

// NewAuthorizer creates an authorizer backed by tokens
func NewAuthorizer(tokens TokenResolver) *Authorizer {
	return &Authorizer{tokens: tokens}
}

// Authenticate resolves token into a principal. An empty token is a valid
// Unauthenticated principal; a non-empty token that does not resolve is an
// error, the request does not silently downgrade.
func (a *Authorizer) Authenticate(token string) (Principal, error) {
	if token == "" {
		return Principal{}, nil
	}

	identity, err := a.tokens.ResolveToken(token)
	if err != nil {
		return Principal{}, err
	}

	return Principal{Identity: identity}, nil
}

// OwnerFor returns the owner to stamp on a new post: the caller's user id,
// or nil for unauthenticated creation.
func (a *Authorizer) OwnerFor(p Principal) *string {
	if !p.Authenticated() {
		return nil
	}
	owner := p.Identity.UserID
	return &owner
}

// AuthorizeDelete permits deletion only by the post's owner.
func (a *Authorizer) AuthorizeDelete(p Principal, post *models.Post) error {
	if !p.Authenticated() {
		return ErrMissingToken
	}
	if !post.OwnedBy(p.Identity.UserID) {
		return ErrForbidden
	}
	return nil
}

// AuthorizeUpdate always permits like changes. Changing title, author or
// url requires the owner.
func (a *Authorizer) AuthorizeUpdate(p Principal, post *models.Post, patch models.PostPatch) error {
	if !patch.ChangesMetadata(post) {
		return nil
	}
	if !p.Authenticated() {
		return ErrMissingToken
	}
	if !post.OwnedBy(p.Identity.UserID) {
		return ErrForbidden
	}
	return nil
}
