package models

import (
	"strings"
	"time"
)

// Post представляет запись блога в каталоге
type Post struct {
	CreatedAt time.Time `json:"created_at"`     // время создания
	UpdatedAt time.Time `json:"updated_at"`     // время последнего изменения
	OwnerID   *string   `json:"user,omitempty"` // ID владельца, nil для записей без авторизации
	ID        string    `json:"id"`             // публичный UUID, не зависит от ключа хранилища
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	URL       string    `json:"url"`
	Likes     int       `json:"likes"`
}

// OwnedBy reports whether the post belongs to the given user.
// Posts without an owner belong to nobody.
func (p *Post) OwnedBy(userID string) bool {
	return p.OwnerID != nil && userID != "" && *p.OwnerID == userID
}

// PostPatch describes a partial update. Nil fields are left untouched.
type PostPatch struct {
	Title  *string `json:"title,omitempty"`
	Author *string `json:"author,omitempty"`
	URL    *string `json:"url,omitempty"`
	Likes  *int    `json:"likes,omitempty"`
}

// IsEmpty reports whether the patch changes nothing at all.
func (p PostPatch) IsEmpty() bool {
	return p.Title == nil && p.Author == nil && p.URL == nil && p.Likes == nil
}

// ChangesMetadata reports whether applying the patch to post would modify
// anything other than the like counter. Values equal to the stored ones
// do not count as changes.
func (p PostPatch) ChangesMetadata(post *Post) bool {
	if p.Title != nil && strings.TrimSpace(*p.Title) != post.Title {
		return true
	}
	if p.Author != nil && *p.Author != post.Author {
		return true
	}
	if p.URL != nil && strings.TrimSpace(*p.URL) != post.URL {
		return true
	}
	return false
}

// Apply copies the non-nil fields of the patch into post.
func (p PostPatch) Apply(post *Post) {
	if p.Title != nil {
		post.Title = strings.TrimSpace(*p.Title)
	}
	if p.Author != nil {
		post.Author = *p.Author
	}
	if p.URL != nil {
		post.URL = strings.TrimSpace(*p.URL)
	}
	if p.Likes != nil {
		post.Likes = *p.Likes
	}
}
